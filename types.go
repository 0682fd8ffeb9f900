// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"encoding"
	"flag"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// A typeRegistry holds the parsers and enums known to a Builder.
type typeRegistry struct {
	parsers map[reflect.Type]parseFunc
	enums   map[reflect.Type]*enumType
}

func newTypeRegistry() *typeRegistry {
	r := &typeRegistry{
		parsers: map[reflect.Type]parseFunc{},
		enums:   map[reflect.Type]*enumType{},
	}
	registerParser(r, uuid.Parse)
	registerParser(r, func(s string) (semver.Version, error) {
		v, err := semver.NewVersion(s)
		if err != nil {
			return semver.Version{}, err
		}
		return *v, nil
	})
	registerParser(r, semver.NewVersion)
	registerParser(r, func(s string) (url.URL, error) {
		u, err := url.Parse(s)
		if err != nil {
			return url.URL{}, err
		}
		return *u, nil
	})
	registerParser(r, url.Parse)
	return r
}

func registerParser[T any](r *typeRegistry, parse func(string) (T, error)) {
	r.parsers[reflect.TypeOf((*T)(nil)).Elem()] = func(s string) (interface{}, error) {
		return parse(s)
	}
}

// AddParser registers a function that constructs a T from a string.
// It is used for fields of type T, *T, and collections of T.
func AddParser[T any](b *Builder, parse func(string) (T, error)) {
	registerParser(b.types, parse)
}

// EnumValue is the constraint for enum types registered with AddEnum.
type EnumValue interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

type enumType struct {
	names  []string // for help and completion
	values map[string]reflect.Value
}

// AddEnum registers the named values of an integer type T. Command-line
// values of type T may then be given by name, case-insensitively, or by number.
func AddEnum[T EnumValue](b *Builder, values map[string]T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	e := &enumType{values: map[string]reflect.Value{}}
	for name, v := range values {
		e.names = append(e.names, name)
		e.values[strings.ToLower(name)] = reflect.ValueOf(v)
	}
	// Order names by value, then by name.
	sort.Slice(e.names, func(i, j int) bool {
		x, y := e.names[i], e.names[j]
		if values[x] != values[y] {
			return values[x] < values[y]
		}
		return x < y
	})
	b.types.enums[t] = e
}

func (e *enumType) parse(s string, t reflect.Type) (interface{}, error) {
	if v, ok := e.values[strings.ToLower(s)]; ok {
		return v.Interface(), nil
	}
	v, err := parseNumber(s, t)
	if err != nil {
		return nil, fmt.Errorf("must be one of %s or a number", strings.Join(e.names, ", "))
	}
	return v, nil
}

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	flagValueType       = reflect.TypeOf((*flag.Value)(nil)).Elem()
)

// hasTextParser reports whether values of t are constructed by something
// other than the built-in kind rules.
func (r *typeRegistry) hasTextParser(t reflect.Type) bool {
	if _, ok := r.parsers[t]; ok {
		return true
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(textUnmarshalerType) || pt.Implements(flagValueType)
}

// isScalar reports whether a member of type t takes a single value.
func (r *typeRegistry) isScalar(t reflect.Type) bool {
	if t.Kind() == reflect.String || r.hasTextParser(t) {
		return true
	}
	if _, ok := r.enums[t]; ok {
		return true
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return false
	case reflect.Map:
		return !isSetMap(t)
	}
	return true
}

// isSetMap reports whether t is map[T]struct{} or map[T]bool.
func isSetMap(t reflect.Type) bool {
	if t.Kind() != reflect.Map {
		return false
	}
	v := t.Elem()
	return v.Kind() == reflect.Bool || (v.Kind() == reflect.Struct && v.NumField() == 0)
}

func parseNumber(s string, t reflect.Type) (interface{}, error) {
	convert := func(v interface{}) interface{} {
		return reflect.ValueOf(v).Convert(t).Interface()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return nil, numError(err)
		}
		return convert(i), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return nil, numError(err)
		}
		return convert(u), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return nil, numError(err)
		}
		return convert(f), nil
	default:
		return nil, fmt.Errorf("%s is not a number type", t)
	}
}

// numError strips the function name and input from a strconv error;
// the caller reports the input.
func numError(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
