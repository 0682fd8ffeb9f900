// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// A Validator checks a converted member value.
type Validator interface {
	Validate(v interface{}) error
}

// ValidatorFunc adapts a function to a Validator.
type ValidatorFunc func(interface{}) error

func (f ValidatorFunc) Validate(v interface{}) error { return f(v) }

// ValidateWith returns a Validator for values of type T.
func ValidateWith[T any](f func(T) error) Validator {
	return ValidatorFunc(func(v interface{}) error {
		t, ok := v.(T)
		if !ok {
			var zero T
			return fmt.Errorf("got %T, want %T", v, zero)
		}
		return f(t)
	})
}

// OneOf returns a Validator that accepts only the given strings. It checks
// each element of a collection, and accepts a nil pointer.
func OneOf(choices ...string) Validator {
	return ValidatorFunc(func(v interface{}) error {
		return checkOneof(reflect.ValueOf(v), choices)
	})
}

func checkOneof(v reflect.Value, choices []string) error {
	switch v.Kind() {
	case reflect.String:
		for _, c := range choices {
			if v.String() == c {
				return nil
			}
		}
		return fmt.Errorf("%q: must be one of: %s", v.String(), strings.Join(choices, ", "))
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return checkOneof(v.Elem(), choices)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := checkOneof(v.Index(i), choices); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("cannot check %s against choices", v.Type())
	}
}

// An Activator creates the command instance that input is bound to.
type Activator interface {
	Activate(s *CommandSchema) (Command, error)
}

// ActivatorFunc adapts a function to an Activator.
type ActivatorFunc func(*CommandSchema) (Command, error)

func (f ActivatorFunc) Activate(s *CommandSchema) (Command, error) { return f(s) }

// activate returns a copy of the struct registered for s, so that field values
// set at registration act as defaults.
func activate(s *CommandSchema) (Command, error) {
	if !s.IsRunnable() {
		return nil, fmt.Errorf("%w: %q is a group", ErrActivation, s.Name)
	}
	ptr := reflect.New(s.Type.Elem())
	if s.prototype.IsValid() && !s.prototype.IsNil() {
		ptr.Elem().Set(s.prototype.Elem())
	}
	return ptr.Interface().(Command), nil
}

func (a *App) activate(s *CommandSchema) (Command, error) {
	cmd, err := a.activator.Activate(s)
	if err != nil {
		if !errors.Is(err, ErrActivation) {
			err = fmt.Errorf("%w %q: %w", ErrActivation, s.Name, err)
		}
		return nil, err
	}
	if cmd == nil || reflect.TypeOf(cmd) != s.Type {
		return nil, fmt.Errorf("%w %q: activator returned %T, want %s", ErrActivation, s.Name, cmd, s.Type)
	}
	return cmd, nil
}

// Bind sets the fields of cmd from the input in c. Parameters are bound
// before options. The first error stops binding; user input errors are
// returned as a *UsageError.
func (a *App) Bind(c *Candidate, cmd Command) error {
	v := reflect.ValueOf(cmd)
	if v.Type() != c.Schema.Type {
		return fmt.Errorf("cannot bind %s to a %T", c.Schema.Type, cmd)
	}
	if err := a.bindParameters(c, v.Elem()); err != nil {
		return err
	}
	return a.bindOptions(c, v.Elem())
}

func (a *App) bindParameters(c *Candidate, sv reflect.Value) error {
	s := c.Schema
	pos := 0
	var missing []*ParameterSchema
	for _, p := range s.sortedParameters() {
		var raws []string
		if p.IsScalar() {
			if pos < len(c.Parameters) {
				raws = c.Parameters[pos : pos+1]
				pos++
			}
		} else {
			raws = c.Parameters[pos:]
			pos = len(c.Parameters)
		}
		if len(raws) == 0 && (p.IsRequired || p.IsScalar()) {
			// An optional non-scalar parameter is still converted, to an empty value.
			if p.IsRequired {
				missing = append(missing, p)
			}
			continue
		}
		if err := a.bindMember(s, sv, &p.Member, p.String(), raws); err != nil {
			return err
		}
	}
	if pos < len(c.Parameters) {
		return &UsageError{Command: s, Err: fmt.Errorf("%w: %s", ErrUnexpectedParameters, quoteAll(c.Parameters[pos:]))}
	}
	if len(missing) > 0 {
		var names []string
		for _, p := range missing {
			names = append(names, p.String())
		}
		return &UsageError{Command: s, Err: fmt.Errorf("%w: %s", ErrMissingParameters, strings.Join(names, ", "))}
	}
	return nil
}

func (a *App) bindOptions(c *Candidate, sv reflect.Value) error {
	s := c.Schema
	matched := make([]bool, len(c.Input.Options))
	var missing []*OptionSchema
	for _, o := range s.Options {
		var (
			raws  []string
			given bool
		)
		for i, in := range c.Input.Options {
			if o.MatchesAlias(in.Alias) {
				matched[i] = true
				given = true
				raws = append(raws, in.Values...)
			}
		}
		if !given && o.EnvironmentVariable != "" {
			if ev, ok := c.Input.Environment[o.EnvironmentVariable]; ok {
				given = true
				raws = envValues(ev, o.IsScalar())
				a.logger.Debug("option from environment", "option", o.String(), "var", o.EnvironmentVariable)
			}
		}
		if !given {
			if o.IsRequired {
				missing = append(missing, o)
			}
			continue
		}
		if o.IsRequired && len(raws) == 0 && !isBoolMember(&o.Member) {
			missing = append(missing, o)
			continue
		}
		if err := a.bindMember(s, sv, &o.Member, o.String(), raws); err != nil {
			return err
		}
	}
	var unrecognized []string
	for i, in := range c.Input.Options {
		if !matched[i] && !in.IsHelp() && !in.IsVersion() {
			unrecognized = append(unrecognized, in.String())
		}
	}
	if len(unrecognized) > 0 {
		return &UsageError{Command: s, Err: fmt.Errorf("%w: %s", ErrUnrecognizedOptions, strings.Join(unrecognized, ", "))}
	}
	if len(missing) > 0 {
		var names []string
		for _, o := range missing {
			names = append(names, o.String())
		}
		return &UsageError{Command: s, Err: fmt.Errorf("%w: %s", ErrMissingOptions, strings.Join(names, ", "))}
	}
	return nil
}

// envValues splits an environment variable's value for a member.
// Non-scalar members take a list separated like PATH.
func envValues(v string, scalar bool) []string {
	if scalar {
		return []string{v}
	}
	var raws []string
	for _, p := range strings.Split(v, string(os.PathListSeparator)) {
		if p != "" {
			raws = append(raws, p)
		}
	}
	return raws
}

func isBoolMember(m *Member) bool {
	return m.typ != nil && m.typ.Kind() == reflect.Bool
}

// bindMember converts raws, validates the result and stores it in the struct sv.
func (a *App) bindMember(s *CommandSchema, sv reflect.Value, m *Member, display string, raws []string) error {
	if m.IsScalar() && len(raws) > 1 {
		return &UsageError{Command: s, Err: fmt.Errorf("%s: %w, got %s", display, ErrTooManyValues, quoteAll(raws))}
	}
	v, err := a.types.convert(m, raws)
	if err != nil {
		if errors.Is(err, ErrUnsupportedType) {
			return schemaErrorf(s, ErrUnsupportedType, "%s: %v", display, err)
		}
		what := quoteAll(raws)
		if len(raws) == 0 {
			what = "empty value"
		}
		return &UsageError{Command: s, Err: fmt.Errorf("%w %s for %s: %w", ErrConversion, what, display, err)}
	}
	if err := validate(v.Interface(), m.Validators); err != nil {
		return &UsageError{Command: s, Err: fmt.Errorf("%w for %s: %w", ErrInvalidValue, display, err)}
	}
	sv.FieldByIndex(m.index).Set(v)
	a.logger.Debug("bound", "member", display, "values", raws)
	return nil
}

func validate(v interface{}, validators []Validator) error {
	var result *multierror.Error
	for _, val := range validators {
		if err := val.Validate(v); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result != nil {
		result.ErrorFormat = joinErrors
	}
	return result.ErrorOrNil()
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func quoteAll(ss []string) string {
	qs := make([]string, len(ss))
	for i, s := range ss {
		qs[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(qs, " ")
}
