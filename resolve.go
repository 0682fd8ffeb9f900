// Copyright 2021 Jonathan Amsterdam.

package cli

import "strings"

// Candidate is a command matched to the input that invoked it.
type Candidate struct {
	Schema     *CommandSchema
	Parameters []string // positional tokens meant for the command
	Input      *CommandInput
}

// Resolve finds the command named by input, or the default command if the
// input names none. It reports false if there is no such command; callers
// typically show help in that case.
func (a *App) Resolve(input *CommandInput) (*Candidate, bool) {
	s := findCommand(a.schemas, input.CommandName)
	if s == nil {
		return nil, false
	}
	return &Candidate{Schema: s, Parameters: input.Parameters, Input: input}, true
}

func findCommand(schemas []*CommandSchema, name string) *CommandSchema {
	for _, s := range schemas {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

// isDescendant reports whether the command named child is below the one named
// parent. Every named command is below the default command.
func isDescendant(child, parent string) bool {
	if parent == "" {
		return child != ""
	}
	return len(child) > len(parent)+1 &&
		strings.EqualFold(child[:len(parent)], parent) &&
		child[len(parent)] == ' '
}

func descendants(schemas []*CommandSchema, parent string) []*CommandSchema {
	var ds []*CommandSchema
	for _, s := range schemas {
		if isDescendant(s.Name, parent) {
			ds = append(ds, s)
		}
	}
	return ds
}

// children returns the immediate sub-commands of parent, in registration order.
func children(schemas []*CommandSchema, parent string) []*CommandSchema {
	ds := descendants(schemas, parent)
	var cs []*CommandSchema
outer:
	for _, d := range ds {
		for _, e := range ds {
			if isDescendant(d.Name, e.Name) {
				continue outer
			}
		}
		cs = append(cs, d)
	}
	return cs
}
