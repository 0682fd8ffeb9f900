// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"encoding"
	"errors"
	"flag"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parsers for parameter and option values.

// A Converter turns a raw command-line value into a value of a member's type.
// For collection members, it converts each element.
type Converter interface {
	Convert(raw string) (interface{}, error)
}

// ConverterFunc adapts a function to a Converter.
type ConverterFunc func(string) (interface{}, error)

func (f ConverterFunc) Convert(raw string) (interface{}, error) { return f(raw) }

// ConvertWith returns a Converter that calls f.
func ConvertWith[T any](f func(string) (T, error)) Converter {
	return ConverterFunc(func(s string) (interface{}, error) {
		return f(s)
	})
}

// parseFunc is the type of functions that parse argument or flag strings into values.
type parseFunc func(string) (interface{}, error)

var (
	stringType   = reflect.TypeOf("")
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

// convert produces a value of m's type from raws. A scalar member takes at most one raw value;
// no value is the same as the empty string.
// Panics in user-supplied converters are returned as errors.
func (r *typeRegistry) convert(m *Member, raws []string) (v reflect.Value, err error) {
	defer func() {
		if x := recover(); x != nil {
			err = fmt.Errorf("panic: %v", x)
		}
	}()
	if !m.scalar {
		return r.convertMulti(m.typ, m.Converter, raws)
	}
	if len(raws) > 1 {
		return reflect.Value{}, ErrTooManyValues
	}
	raw := ""
	if len(raws) == 1 {
		raw = raws[0]
	}
	return r.convertSingle(m.typ, m.Converter, raw)
}

func (r *typeRegistry) convertMulti(t reflect.Type, c Converter, raws []string) (reflect.Value, error) {
	elem := func(et reflect.Type, raw string) (reflect.Value, error) {
		v, err := r.convertSingle(et, c, raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%q: %w", raw, err)
		}
		return v, nil
	}
	switch {
	case t.Kind() == reflect.Slice:
		slice := reflect.MakeSlice(t, len(raws), len(raws))
		for i, raw := range raws {
			v, err := elem(t.Elem(), raw)
			if err != nil {
				return reflect.Value{}, err
			}
			slice.Index(i).Set(v)
		}
		return slice, nil
	case t.Kind() == reflect.Array:
		if len(raws) != t.Len() {
			return reflect.Value{}, fmt.Errorf("need exactly %d values, got %d", t.Len(), len(raws))
		}
		arr := reflect.New(t).Elem()
		for i, raw := range raws {
			v, err := elem(t.Elem(), raw)
			if err != nil {
				return reflect.Value{}, err
			}
			arr.Index(i).Set(v)
		}
		return arr, nil
	case isSetMap(t):
		set := reflect.MakeMapWithSize(t, len(raws))
		present := reflect.New(t.Elem()).Elem()
		if t.Elem().Kind() == reflect.Bool {
			present.SetBool(true)
		}
		for _, raw := range raws {
			v, err := elem(t.Key(), raw)
			if err != nil {
				return reflect.Value{}, err
			}
			set.SetMapIndex(v, present)
		}
		return set, nil
	default:
		return reflect.Value{}, fmt.Errorf("%w %s", ErrUnsupportedType, t)
	}
}

// convertSingle converts one raw value to type t. The first matching rule wins.
func (r *typeRegistry) convertSingle(t reflect.Type, c Converter, raw string) (reflect.Value, error) {
	if c != nil {
		x, err := c.Convert(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return valueOf(x, t)
	}
	if t == stringType || (t.Kind() == reflect.Interface && stringType.AssignableTo(t)) {
		return valueOf(raw, t)
	}
	if t.Kind() == reflect.Bool && !r.hasTextParser(t) {
		b, err := parseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b).Convert(t), nil
	}
	switch t {
	case timeType:
		tm, err := parseTime(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(tm), nil
	case durationType:
		d, err := parseDuration(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	}
	if e, ok := r.enums[t]; ok {
		return parsed(e.parse(raw, t))
	}
	if isNumberKind(t.Kind()) && !r.hasTextParser(t) {
		return parsed(parseNumber(raw, t))
	}
	if t.Kind() == reflect.Ptr {
		if p, ok := r.parsers[t]; ok {
			return parsedAs(t)(p(raw))
		}
		if raw == "" {
			return reflect.Zero(t), nil
		}
		v, err := r.convertSingle(t.Elem(), nil, raw)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	}
	if p, ok := r.parsers[t]; ok {
		return parsedAs(t)(p(raw))
	}
	ptr := reflect.New(t)
	switch u := ptr.Interface().(type) {
	case encoding.TextUnmarshaler:
		if err := u.UnmarshalText([]byte(raw)); err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	case flag.Value:
		if err := u.Set(raw); err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	}
	if t.Kind() == reflect.String {
		return reflect.ValueOf(raw).Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w %s", ErrUnsupportedType, t)
}

func parsed(x interface{}, err error) (reflect.Value, error) {
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(x), nil
}

func parsedAs(t reflect.Type) func(interface{}, error) (reflect.Value, error) {
	return func(x interface{}, err error) (reflect.Value, error) {
		if err != nil {
			return reflect.Value{}, err
		}
		return valueOf(x, t)
	}
}

// valueOf returns x as a reflect.Value of type t. A nil x is the zero value.
func valueOf(x interface{}, t reflect.Type) (reflect.Value, error) {
	if x == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(x)
	switch {
	case v.Type().AssignableTo(t):
		w := reflect.New(t).Elem()
		w.Set(v)
		return w, nil
	case v.Type().ConvertibleTo(t) && v.Kind() == t.Kind():
		return v.Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("converter returned %T, not %s", x, t)
	}
}

// parseBool treats an empty value as true, so that a boolean option can be a switch.
// Otherwise only "true" and "false", in any case, are accepted.
func parseBool(s string) (bool, error) {
	switch {
	case s == "":
		return true, nil
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	}
	return false, fmt.Errorf("%w: must be true or false", strconv.ErrSyntax)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	time.RFC1123Z,
	time.RFC1123,
	"01/02/2006 15:04:05",
	"01/02/2006",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("not a recognized date or time")
}

// timeSpanRegexp matches durations of the form [-][d.]hh:mm[:ss[.fffffff]].
var timeSpanRegexp = regexp.MustCompile(`^(-)?(?:(\d+)\.)?(\d{1,2}):(\d{1,2})(?::(\d{1,2})(?:\.(\d{1,7}))?)?$`)

// parseDuration accepts Go durations ("1h30m"), clock-style durations ("1.02:30:00")
// and a plain number of days.
func parseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if days, err := strconv.ParseInt(s, 10, 32); err == nil {
		return time.Duration(days) * 24 * time.Hour, nil
	}
	m := timeSpanRegexp.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.New("not a recognized duration")
	}
	atoi := func(s string) int64 {
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	}
	h, mins, sec := atoi(m[3]), atoi(m[4]), atoi(m[5])
	if h > 23 || mins > 59 || sec > 59 {
		return 0, errors.New("duration component out of range")
	}
	d := time.Duration(atoi(m[2]))*24*time.Hour +
		time.Duration(h)*time.Hour +
		time.Duration(mins)*time.Minute +
		time.Duration(sec)*time.Second
	if frac := m[6]; frac != "" {
		// Fractions are in units of 100ns.
		frac += strings.Repeat("0", 7-len(frac))
		d += time.Duration(atoi(frac)) * 100 * time.Nanosecond
	}
	if m[1] == "-" {
		d = -d
	}
	return d, nil
}
