// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Code to derive command schemas from struct tags.

// schemaOf builds the schema for a command struct. A nil x makes a group.
// Whether x is a Command is checked when the schema is resolved.
func schemaOf(name string, x interface{}, doc string) (*CommandSchema, error) {
	s := &CommandSchema{
		Name:        strings.Join(strings.Fields(name), " "),
		Description: strings.TrimSpace(doc),
	}
	if x == nil {
		return s, nil
	}
	v := reflect.ValueOf(x)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, schemaErrorf(s, ErrInvalidCommandType, "%T is not a pointer to a struct", x)
	}
	s.Type = v.Type()
	s.prototype = v
	t := v.Elem().Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, hasKey := f.Tag.Lookup("cli")
		if !hasKey {
			// If the "cli" key is missing, assume the entire tag is a cli spec,
			// for convenience.
			tag = string(f.Tag)
		}
		if tag == "-" {
			continue
		}
		if !f.IsExported() {
			if hasKey {
				return nil, schemaErrorf(s, ErrInvalidTag, "field %q: cli tag on unexported field", f.Name)
			}
			continue
		}
		if err := s.parseTag(tag, f, i); err != nil {
			return nil, schemaErrorf(s, ErrInvalidTag, "field %q: %v", f.Name, err)
		}
	}
	return s, nil
}

var validKeys = map[string]bool{
	"flag":       true,
	"short":      true,
	"env":        true,
	"required":   true,
	"order":      true,
	"name":       true,
	"opt":        true,
	"oneof":      true,
	"converter":  true,
	"validators": true,
	"doc":        true,
}

// A tag representing a parameter is most simply just the doc for that parameter.
// It can also start with some options:
// - name=xyz, which will use xyz for the name in the usage doc.
// - order=n, the position of the parameter. By default, the field index.
// - opt, the parameter may be omitted.
// - flag=f, which makes an option named f; short=x adds a short name.
// - env=VAR, an environment variable to fall back on.
// - required, the option must be provided.
// - oneof=a|b|c, which validates that the value is one of those strings.
// - converter=c and validators=v1|v2, which refer to names registered with the Builder.
// A full example:
//
//	Env string `cli:"flag=env, short=e, oneof=dev|prod, development environment"`
func (s *CommandSchema) parseTag(tag string, sf reflect.StructField, index int) error {
	m := tagToMap(tag)
	for k := range m {
		if k == "" {
			return errors.New("empty key")
		}
		if !validKeys[k] {
			return fmt.Errorf("invalid key: %q", k)
		}
	}
	_, isFlag := m["flag"]
	if _, ok := m["short"]; ok {
		isFlag = true
	}
	if isFlag && m["name"] != "" {
		return errors.New("either 'flag' or 'name', but not both")
	}
	for _, k := range []string{"required", "opt"} {
		if v, ok := m[k]; ok && v != "" {
			return fmt.Errorf("%q should not have a value", k)
		}
	}

	mem := Member{
		Field:         sf.Name,
		Description:   m["doc"],
		ConverterName: m["converter"],
	}
	if vs := m["validators"]; vs != "" {
		mem.ValidatorNames = splitBar(vs)
	}
	if oneof, ok := m["oneof"]; ok {
		if !isStringish(sf.Type) {
			return fmt.Errorf("oneof must be string type, not %s", sf.Type)
		}
		mem.choices = splitBar(oneof)
		if len(mem.choices) == 0 {
			return errors.New("oneof needs at least one choice")
		}
		mem.Validators = append(mem.Validators, OneOf(mem.choices...))
	}

	if isFlag {
		if _, ok := m["opt"]; ok {
			return errors.New(`"opt" is only for parameters`)
		}
		if _, ok := m["order"]; ok {
			return errors.New(`"order" is only for parameters`)
		}
		_, mem.IsRequired = m["required"]
		o := &OptionSchema{Member: mem, EnvironmentVariable: m["env"]}
		if fname, ok := m["flag"]; ok {
			fname = strings.TrimLeft(fname, "-")
			if fname == "" {
				fname = strings.ToLower(sf.Name)
			}
			if r, n := utf8.DecodeRuneInString(fname); n == len(fname) {
				// flag=v is a short name.
				if m["short"] != "" {
					return fmt.Errorf("flag %q and short %q are both short names", fname, m["short"])
				}
				o.ShortName = r
			} else {
				o.Name = fname
			}
		}
		if short := m["short"]; short != "" {
			r, n := utf8.DecodeRuneInString(short)
			if n != len(short) {
				return fmt.Errorf("short name %q is not a single character", short)
			}
			o.ShortName = r
		}
		s.Options = append(s.Options, o)
		return nil
	}

	// positional parameter
	if _, ok := m["env"]; ok {
		return errors.New(`"env" is only for flags`)
	}
	order := index
	if o, ok := m["order"]; ok {
		n, err := strconv.Atoi(o)
		if err != nil {
			return fmt.Errorf("order: %w", err)
		}
		order = n
	}
	name := m["name"]
	if name == "" {
		name = strings.ToLower(sf.Name)
	}
	_, opt := m["opt"]
	mem.IsRequired = !opt
	s.Parameters = append(s.Parameters, &ParameterSchema{Member: mem, Order: order, Name: name})
	return nil
}

func isStringish(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String:
		return true
	case reflect.Slice, reflect.Array, reflect.Ptr:
		return t.Elem().Kind() == reflect.String
	}
	return false
}

func splitBar(s string) []string {
	var r []string
	for _, p := range strings.Split(s, "|") {
		if p = strings.TrimSpace(p); p != "" {
			r = append(r, p)
		}
	}
	return r
}

var (
	keyRegexp     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]+=`)
	bareKeyRegexp = regexp.MustCompile(`^(required|opt)\s*(,|$)`)
)

func tagToMap(tag string) map[string]string {
	m := map[string]string{}
	tag = strings.TrimSpace(tag)
	for len(tag) > 0 {
		if loc := bareKeyRegexp.FindStringSubmatchIndex(tag); loc != nil {
			m[tag[loc[2]:loc[3]]] = ""
			tag = strings.TrimSpace(tag[loc[1]:])
			continue
		}
		loc := keyRegexp.FindStringIndex(tag)
		if loc == nil {
			m["doc"] = tag
			break
		}
		key := tag[:loc[1]-1]
		tag = tag[loc[1]:]
		before, after, found := strings.Cut(tag, ",")
		var value string
		if !found {
			value = tag
			tag = ""
		} else {
			value = before
			tag = strings.TrimSpace(after)
		}
		m[key] = strings.TrimSpace(value)
	}
	return m
}
