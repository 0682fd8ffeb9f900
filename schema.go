// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"
)

// CommandSchema describes a command: its name, positional parameters and options.
// Schemas are read-only once the App is built.
type CommandSchema struct {
	// Type is the pointer-to-struct type of the command.
	// It is nil for a group, which only shows help.
	Type        reflect.Type
	Name        string // empty for the default command
	Description string
	Parameters  []*ParameterSchema
	Options     []*OptionSchema

	prototype reflect.Value // registered instance, copied on activation
}

func (s *CommandSchema) IsDefault() bool {
	return s.Name == ""
}

func (s *CommandSchema) IsRunnable() bool {
	return s.Type != nil
}

// sortedParameters returns the parameters ordered by Order.
// Parameters with equal order keep their declaration order.
func (s *CommandSchema) sortedParameters() []*ParameterSchema {
	ps := append([]*ParameterSchema(nil), s.Parameters...)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Order < ps[j].Order })
	return ps
}

// Member is the part of a schema shared by parameters and options:
// the struct field that receives the value and how to produce it.
type Member struct {
	Field       string // name of the struct field
	Description string
	IsRequired  bool

	// Converter, if set, turns each raw value into the field's value
	// (or its element's value, for collections).
	Converter  Converter
	Validators []Validator

	// Names of a converter and validators registered with the Builder.
	ConverterName  string
	ValidatorNames []string

	typ     reflect.Type
	index   []int
	scalar  bool
	choices []string // from the oneof tag
}

// Type returns the type of the member's field.
func (m *Member) Type() reflect.Type {
	return m.typ
}

// IsScalar reports whether the member takes a single value.
// Collections other than strings take any number of values.
func (m *Member) IsScalar() bool {
	return m.scalar
}

// ParameterSchema describes a positional parameter.
type ParameterSchema struct {
	Member
	Order int
	Name  string
}

func (p *ParameterSchema) String() string {
	return "<" + p.Name + ">"
}

// OptionSchema describes a named option.
// At least one of Name and ShortName must be set.
type OptionSchema struct {
	Member
	Name                string
	ShortName           rune // zero if none
	EnvironmentVariable string
}

func (o *OptionSchema) MatchesName(name string) bool {
	return o.Name != "" && strings.EqualFold(o.Name, name)
}

func (o *OptionSchema) MatchesShortName(r rune) bool {
	return o.ShortName != 0 && o.ShortName == r
}

// MatchesAlias reports whether an alias from the command line refers to o.
// Long names match case-insensitively, short names exactly.
func (o *OptionSchema) MatchesAlias(alias string) bool {
	if o.MatchesName(alias) {
		return true
	}
	r, n := utf8.DecodeRuneInString(alias)
	return n > 0 && n == len(alias) && o.MatchesShortName(r)
}

func (o *OptionSchema) String() string {
	switch {
	case o.Name != "" && o.ShortName != 0:
		return "--" + o.Name + "|-" + string(o.ShortName)
	case o.Name != "":
		return "--" + o.Name
	default:
		return "-" + string(o.ShortName)
	}
}

// Built-in options, available on every command.
var (
	helpOption = &OptionSchema{
		Name:      "help",
		ShortName: 'h',
		Member:    Member{Description: "Show help text.", typ: boolType, scalar: true},
	}
	versionOption = &OptionSchema{
		Name:   "version",
		Member: Member{Description: "Show version information.", typ: boolType, scalar: true},
	}
)

var boolType = reflect.TypeOf(false)
