// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func schemaNames(ss []*CommandSchema) []string {
	var names []string
	for _, s := range ss {
		names = append(names, s.Name)
	}
	return names
}

func TestResolve(t *testing.T) {
	a := newTestApp(t, nil, nil, func(b *Builder) {
		b.Register("", &nameCmd{}, "").
			Register("a", nil, "").
			Register("a b", &nameCmd{}, "").
			Register("c", &nameCmd{}, "")
	})
	for _, test := range []struct {
		args string
		want string
	}{
		{"", ""},
		{"x", ""},
		{"a", "a"},
		{"A B x", "a b"},
		{"c", "c"},
	} {
		in := ParseInput(strings.Fields(test.args), a.names, nil)
		c, ok := a.Resolve(in)
		if !ok {
			t.Errorf("%q: not resolved", test.args)
			continue
		}
		if c.Schema.Name != test.want {
			t.Errorf("%q: got %q, want %q", test.args, c.Schema.Name, test.want)
		}
		if !cmp.Equal(c.Parameters, in.Parameters) || c.Input != in {
			t.Errorf("%q: candidate does not carry the input", test.args)
		}
	}

	// Without a default command, an input with no command name resolves to nothing.
	a = newTestApp(t, nil, nil, func(b *Builder) { b.Register("a", &nameCmd{}, "") })
	if _, ok := a.Resolve(ParseInput([]string{"x"}, a.names, nil)); ok {
		t.Error("resolved a command without a default")
	}
}

func TestIsDescendant(t *testing.T) {
	for _, test := range []struct {
		child, parent string
		want          bool
	}{
		{"a", "", true},
		{"", "", false},
		{"a b", "a", true},
		{"A B", "a", true},
		{"a b c", "a", true},
		{"ab", "a", false},
		{"a", "a", false},
		{"a", "a b", false},
		{"b c", "a", false},
	} {
		if got := isDescendant(test.child, test.parent); got != test.want {
			t.Errorf("isDescendant(%q, %q) = %t, want %t", test.child, test.parent, got, test.want)
		}
	}
}

func TestChildren(t *testing.T) {
	schemas := []*CommandSchema{
		{Name: ""},
		{Name: "a"},
		{Name: "a b"},
		{Name: "a b c"},
		{Name: "x y"},
		{Name: "x y z"},
		{Name: "c"},
	}
	for _, test := range []struct {
		parent string
		want   []string
	}{
		{"", []string{"a", "x y", "c"}},
		{"a", []string{"a b"}},
		{"a b", []string{"a b c"}},
		{"x", []string{"x y"}},
		{"c", nil},
	} {
		got := schemaNames(children(schemas, test.parent))
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("children(%q) mismatch (-want, +got):\n%s", test.parent, diff)
		}
	}
	if got, want := len(descendants(schemas, "a")), 2; got != want {
		t.Errorf("descendants: got %d, want %d", got, want)
	}
}
