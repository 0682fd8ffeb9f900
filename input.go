// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Code to split a command line into directives, command name, parameters and options.

// CommandInput is a tokenized command line. It is not modified after ParseInput returns.
type CommandInput struct {
	Directives  []string
	CommandName string // empty for the default command
	Parameters  []string
	Options     []OptionInput
	Environment map[string]string
}

// OptionInput is one occurrence of an option on the command line.
// Alias is a long name or a single-character short name, without dashes.
type OptionInput struct {
	Alias  string
	Values []string
}

func (o OptionInput) IsHelp() bool {
	return o.Alias == "h" || o.Alias == "?" || strings.EqualFold(o.Alias, "help")
}

func (o OptionInput) IsVersion() bool {
	return strings.EqualFold(o.Alias, "version")
}

func (o OptionInput) String() string {
	if utf8.RuneCountInString(o.Alias) == 1 {
		return "-" + o.Alias
	}
	return "--" + o.Alias
}

// ParseInput tokenizes args. commandNames are the names of all named commands;
// the longest run of leading words that matches one becomes the CommandName.
// env is stored in the result for option fallback values.
func ParseInput(args []string, commandNames []string, env map[string]string) *CommandInput {
	in := &CommandInput{Environment: env}
	i := in.parseDirectives(args, 0)
	i = in.parseCommandName(args, i, commandNames)
	i = in.parseParameters(args, i)
	in.parseOptions(args, i)
	return in
}

func isDirective(arg string) bool {
	return len(arg) > 2 && arg[0] == '[' && arg[len(arg)-1] == ']'
}

func (in *CommandInput) parseDirectives(args []string, i int) int {
	for ; i < len(args) && isDirective(args[i]); i++ {
		in.Directives = append(in.Directives, args[i][1:len(args[i])-1])
	}
	return i
}

func (in *CommandInput) parseCommandName(args []string, i int, commandNames []string) int {
	known := make(map[string]bool, len(commandNames))
	for _, n := range commandNames {
		known[strings.ToLower(n)] = true
	}
	end := i
	for j := i; j < len(args); j++ {
		candidate := strings.Join(args[i:j+1], " ")
		if known[strings.ToLower(candidate)] {
			in.CommandName = candidate
			end = j + 1
		}
	}
	return end
}

func (in *CommandInput) parseParameters(args []string, i int) int {
	for ; i < len(args) && !isOptionIdentifier(args[i]); i++ {
		in.Parameters = append(in.Parameters, args[i])
	}
	return i
}

func (in *CommandInput) parseOptions(args []string, i int) {
	var (
		alias  string
		values []string
		active bool
	)
	flush := func() {
		if active {
			in.Options = append(in.Options, OptionInput{Alias: alias, Values: values})
		}
		alias, values, active = "", nil, false
	}
	for ; i < len(args); i++ {
		arg := args[i]
		switch {
		case !isOptionIdentifier(arg):
			if active {
				values = append(values, arg)
			}
		case strings.HasPrefix(arg, "--"):
			flush()
			alias, active = arg[2:], true
		case arg == "-":
			flush()
			active = true
		default:
			// A cluster of short options; the last one takes the values that follow.
			for _, r := range arg[1:] {
				flush()
				alias, active = string(r), true
			}
		}
	}
	flush()
}

// isOptionIdentifier reports whether arg starts an option rather than being a value.
// Only a dash followed by a letter (or "?", or nothing) starts an option, so
// negative numbers like -13 are values.
func isOptionIdentifier(arg string) bool {
	switch {
	case arg == "-" || arg == "--":
		return true
	case strings.HasPrefix(arg, "--"):
		r, _ := utf8.DecodeRuneInString(arg[2:])
		return unicode.IsLetter(r)
	case strings.HasPrefix(arg, "-"):
		r, _ := utf8.DecodeRuneInString(arg[1:])
		return unicode.IsLetter(r) || r == '?'
	}
	return false
}

func (in *CommandInput) HasDirective(name string) bool {
	for _, d := range in.Directives {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

func (in *CommandInput) IsDebugDirectiveSpecified() bool   { return in.HasDirective("debug") }
func (in *CommandInput) IsPreviewDirectiveSpecified() bool { return in.HasDirective("preview") }
func (in *CommandInput) IsSuggestDirectiveSpecified() bool { return in.HasDirective("suggest") }

func (in *CommandInput) IsHelpOptionSpecified() bool {
	for _, o := range in.Options {
		if o.IsHelp() {
			return true
		}
	}
	return false
}

func (in *CommandInput) IsVersionOptionSpecified() bool {
	for _, o := range in.Options {
		if o.IsVersion() {
			return true
		}
	}
	return false
}

// String formats the input the way the preview directive shows it.
func (in *CommandInput) String() string {
	var parts []string
	for _, d := range in.Directives {
		parts = append(parts, "["+d+"]")
	}
	if in.CommandName != "" {
		parts = append(parts, in.CommandName)
	}
	for _, p := range in.Parameters {
		parts = append(parts, "<"+p+">")
	}
	for _, o := range in.Options {
		parts = append(parts, "["+strings.Join(append([]string{o.String()}, o.Values...), " ")+"]")
	}
	return strings.Join(parts, " ")
}
