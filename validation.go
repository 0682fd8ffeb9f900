// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentinel errors for invalid command declarations. They are wrapped in a *SchemaError.
var (
	ErrNoCommands                         = errors.New("no commands defined")
	ErrInvalidCommandType                 = errors.New("invalid command type")
	ErrInvalidTag                         = errors.New("invalid struct tag")
	ErrDuplicateCommand                   = errors.New("duplicate command name")
	ErrDuplicateParameterOrder            = errors.New("duplicate parameter order")
	ErrDuplicateParameterName             = errors.New("duplicate parameter name")
	ErrMultipleNonScalarParameters        = errors.New("more than one non-scalar parameter")
	ErrNonScalarParameterNotLast          = errors.New("non-scalar parameter is not last")
	ErrOptionNameMissing                  = errors.New("option has no name")
	ErrOptionNameTooShort                 = errors.New("option name is too short")
	ErrOptionNameNotLetter                = errors.New("option name does not start with a letter")
	ErrOptionShortNameNotLetter           = errors.New("option short name is not a letter")
	ErrDuplicateOptionName                = errors.New("duplicate option name")
	ErrDuplicateOptionShortName           = errors.New("duplicate option short name")
	ErrDuplicateOptionEnvironmentVariable = errors.New("duplicate option environment variable")
	ErrUnknownConverter                   = errors.New("unknown converter")
	ErrUnknownValidator                   = errors.New("unknown validator")
)

// SchemaError reports a mistake in the declaration of a command.
type SchemaError struct {
	Command string // name of the command; empty for the default command or the whole app
	Err     error  // one of the sentinel errors above
	Msg     string
}

func schemaErrorf(s *CommandSchema, err error, format string, args ...interface{}) *SchemaError {
	e := &SchemaError{Err: err, Msg: fmt.Sprintf(format, args...)}
	if s != nil {
		e.Command = s.Name
	}
	return e
}

func (e *SchemaError) Error() string {
	if e.Command == "" {
		return e.Msg
	}
	return fmt.Sprintf("command %q: %s", e.Command, e.Msg)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

var commandType = reflect.TypeOf((*Command)(nil)).Elem()

// resolveSchema fills in the parts of s that depend on its struct type and on
// the converters and validators registered with b.
func (b *Builder) resolveSchema(s *CommandSchema) error {
	if s.Type == nil {
		if len(s.Parameters) > 0 || len(s.Options) > 0 {
			return schemaErrorf(s, ErrInvalidCommandType, "a group cannot have parameters or options")
		}
		return nil
	}
	if s.Type.Kind() != reflect.Ptr || s.Type.Elem().Kind() != reflect.Struct {
		return schemaErrorf(s, ErrInvalidCommandType, "%s is not a pointer to a struct", s.Type)
	}
	if !s.Type.Implements(commandType) {
		return schemaErrorf(s, ErrInvalidCommandType, "%s does not implement Command", s.Type)
	}
	for _, p := range s.Parameters {
		if p.Name == "" {
			p.Name = strings.ToLower(p.Field)
		}
		if err := b.resolveMember(s, &p.Member); err != nil {
			return err
		}
	}
	for _, o := range s.Options {
		if err := b.resolveMember(s, &o.Member); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) resolveMember(s *CommandSchema, m *Member) error {
	f, ok := s.Type.Elem().FieldByName(m.Field)
	if !ok || !f.IsExported() {
		return schemaErrorf(s, ErrInvalidCommandType, "%s has no exported field %q", s.Type.Elem(), m.Field)
	}
	m.typ = f.Type
	m.index = f.Index
	m.scalar = b.types.isScalar(f.Type)
	if m.ConverterName != "" {
		c, ok := b.converters[m.ConverterName]
		if !ok {
			return schemaErrorf(s, ErrUnknownConverter, "field %q: no converter named %q", m.Field, m.ConverterName)
		}
		m.Converter = c
	}
	for _, name := range m.ValidatorNames {
		v, ok := b.validators[name]
		if !ok {
			return schemaErrorf(s, ErrUnknownValidator, "field %q: no validator named %q", m.Field, name)
		}
		m.Validators = append(m.Validators, v)
	}
	m.ValidatorNames = nil
	return nil
}

// ValidateSchemas checks a complete set of command schemas and returns the
// first problem found. The schemas need not have been built: an unnamed
// parameter is checked under its lower-cased field name, and scalar-ness
// comes from the field's type.
func ValidateSchemas(schemas []*CommandSchema) error {
	if len(schemas) == 0 {
		return &SchemaError{Err: ErrNoCommands, Msg: "no commands defined"}
	}
	seen := map[string]bool{}
	for _, s := range schemas {
		key := strings.ToLower(s.Name)
		if seen[key] {
			if s.Name == "" {
				return schemaErrorf(s, ErrDuplicateCommand, "more than one default command")
			}
			return schemaErrorf(s, ErrDuplicateCommand, "duplicate command name %q", s.Name)
		}
		seen[key] = true
	}
	for _, s := range schemas {
		if err := validateParameters(s); err != nil {
			return err
		}
		if err := validateOptions(s); err != nil {
			return err
		}
	}
	return nil
}

func validateParameters(s *CommandSchema) error {
	ps := s.sortedParameters()
	for i, p := range ps {
		if p.typ == nil {
			ps[i] = unresolvedParameter(s, p)
		}
	}
	orders := map[int]*ParameterSchema{}
	names := map[string]*ParameterSchema{}
	var nonScalar []*ParameterSchema
	for _, p := range ps {
		if q := orders[p.Order]; q != nil {
			return schemaErrorf(s, ErrDuplicateParameterOrder,
				"parameters %s and %s have the same order %d", q, p, p.Order)
		}
		orders[p.Order] = p
		key := strings.ToLower(p.Name)
		if q := names[key]; q != nil {
			return schemaErrorf(s, ErrDuplicateParameterName, "parameters %s and %s have the same name", q, p)
		}
		names[key] = p
		if !p.IsScalar() {
			nonScalar = append(nonScalar, p)
		}
	}
	if len(nonScalar) > 1 {
		return schemaErrorf(s, ErrMultipleNonScalarParameters,
			"parameters %s and %s are both non-scalar; only one is allowed", nonScalar[0], nonScalar[1])
	}
	if len(nonScalar) == 1 && nonScalar[0] != ps[len(ps)-1] {
		return schemaErrorf(s, ErrNonScalarParameterNotLast,
			"non-scalar parameter %s must be the last parameter", nonScalar[0])
	}
	return nil
}

// defaultTypes decides scalar-ness for schemas that were not resolved by a Builder.
var defaultTypes = newTypeRegistry()

// unresolvedParameter returns a copy of p with the name and scalar-ness
// that resolveSchema would give it.
func unresolvedParameter(s *CommandSchema, p *ParameterSchema) *ParameterSchema {
	q := *p
	if q.Name == "" {
		q.Name = strings.ToLower(q.Field)
	}
	q.scalar = true
	if s.Type != nil && s.Type.Kind() == reflect.Ptr && s.Type.Elem().Kind() == reflect.Struct {
		if f, ok := s.Type.Elem().FieldByName(q.Field); ok {
			q.scalar = defaultTypes.isScalar(f.Type)
		}
	}
	return &q
}

func validateOptions(s *CommandSchema) error {
	for _, o := range s.Options {
		if err := validateOptionNames(s, o); err != nil {
			return err
		}
	}
	names := map[string]*OptionSchema{}
	shorts := map[rune]*OptionSchema{}
	envs := map[string]*OptionSchema{}
	for _, o := range append([]*OptionSchema{helpOption, versionOption}, s.Options...) {
		if o.Name != "" {
			key := strings.ToLower(o.Name)
			if q := names[key]; q != nil {
				return schemaErrorf(s, ErrDuplicateOptionName, "options %s and %s have the same name", q, o)
			}
			names[key] = o
		}
		if o.ShortName != 0 {
			if q := shorts[o.ShortName]; q != nil {
				return schemaErrorf(s, ErrDuplicateOptionShortName, "options %s and %s have the same short name", q, o)
			}
			shorts[o.ShortName] = o
		}
		if o.EnvironmentVariable != "" {
			key := strings.ToLower(o.EnvironmentVariable)
			if q := envs[key]; q != nil {
				return schemaErrorf(s, ErrDuplicateOptionEnvironmentVariable,
					"options %s and %s use the same environment variable %q", q, o, o.EnvironmentVariable)
			}
			envs[key] = o
		}
	}
	return nil
}

func validateOptionNames(s *CommandSchema, o *OptionSchema) error {
	if o.Name == "" && o.ShortName == 0 {
		return schemaErrorf(s, ErrOptionNameMissing, "option for field %q has neither a name nor a short name", o.Field)
	}
	if o.Name != "" {
		if utf8.RuneCountInString(o.Name) < 2 {
			return schemaErrorf(s, ErrOptionNameTooShort, "option name %q must be longer than one character", o.Name)
		}
		if r, _ := utf8.DecodeRuneInString(o.Name); !unicode.IsLetter(r) {
			return schemaErrorf(s, ErrOptionNameNotLetter, "option name %q must start with a letter", o.Name)
		}
	}
	if o.ShortName != 0 && !unicode.IsLetter(o.ShortName) {
		return schemaErrorf(s, ErrOptionShortNameNotLetter, "option short name %q must be a letter", o.ShortName)
	}
	return nil
}
