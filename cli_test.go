// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
)

func init() {
	color.NoColor = true
}

// newTestApp builds an app whose output goes to buf and whose
// environment is env.
func newTestApp(t *testing.T, buf *bytes.Buffer, env map[string]string, register func(*Builder)) *App {
	t.Helper()
	if env == nil {
		env = map[string]string{}
	}
	var w io.Writer = io.Discard
	if buf != nil {
		w = buf
	}
	b := New("test").
		SetExecutableName("test").
		UseEnvironment(env).
		UseOutput(w, w).
		UseLogger(log.New(io.Discard))
	register(b)
	a, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return a
}

type nameCmd struct {
	Name string `cli:"opt, a name"`
}

func (*nameCmd) Run(context.Context) error { return nil }

func TestBuild(t *testing.T) {
	a, err := New("test").
		Register("a  b", &nameCmd{}, "").
		Register("c", nil, "group c").
		Register("c d", &nameCmd{}, "").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a b", "c", "c d"}, a.names); diff != "" {
		t.Errorf("names mismatch (-want, +got):\n%s", diff)
	}
	// With no default command, the root is a group.
	if a.root.IsRunnable() || a.root.Name != "" {
		t.Errorf("root: got runnable=%t name=%q, want a nameless group", a.root.IsRunnable(), a.root.Name)
	}
	if got := len(a.Schemas()); got != 3 {
		t.Errorf("got %d schemas, want 3", got)
	}

	a, err = New("test").Register("", &nameCmd{}, "default").Build()
	if err != nil {
		t.Fatal(err)
	}
	if !a.root.IsRunnable() || a.root.Description != "default" {
		t.Errorf("root: got %+v, want the default command", a.root)
	}
}

type convCmd struct {
	N int `cli:"flag=num, converter=nope"`
}

func (*convCmd) Run(context.Context) error { return nil }

type valCmd struct {
	N int `cli:"flag=num, validators=pos|nope"`
}

func (*valCmd) Run(context.Context) error { return nil }

type badTagCmd struct {
	N int `cli:"flag=num, oneof=a|b"`
}

func (*badTagCmd) Run(context.Context) error { return nil }

func TestBuildErrors(t *testing.T) {
	pos := ValidateWith(func(n int) error { return nil })
	for _, test := range []struct {
		name    string
		b       *Builder
		wantErr error
		want    string
	}{
		{
			name:    "no commands",
			b:       New("t"),
			wantErr: ErrNoCommands,
			want:    "no commands",
		},
		{
			name:    "duplicate",
			b:       New("t").Register("x", &nameCmd{}, "").Register("X", &nameCmd{}, ""),
			wantErr: ErrDuplicateCommand,
			want:    `command "X": duplicate command name "X"`,
		},
		{
			name:    "two defaults",
			b:       New("t").Register("", &nameCmd{}, "").Register(" ", &nameCmd{}, ""),
			wantErr: ErrDuplicateCommand,
			want:    "more than one default",
		},
		{
			name:    "bad tag",
			b:       New("t").Register("x", &badTagCmd{}, ""),
			wantErr: ErrInvalidTag,
			want:    `command "x": field "N"`,
		},
		{
			name:    "unknown converter",
			b:       New("t").Register("x", &convCmd{}, ""),
			wantErr: ErrUnknownConverter,
			want:    `no converter named "nope"`,
		},
		{
			name:    "unknown validator",
			b:       New("t").AddValidator("pos", pos).Register("x", &valCmd{}, ""),
			wantErr: ErrUnknownValidator,
			want:    `no validator named "nope"`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.b.Build()
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("got %v, want %v", err, test.wantErr)
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("got %q, want it to contain %q", err, test.want)
			}
		})
	}
}

func TestBuildRegisteredConverter(t *testing.T) {
	a := newTestApp(t, nil, nil, func(b *Builder) {
		b.AddConverter("nope", ConvertWith(func(s string) (int, error) { return len(s), nil })).
			Register("x", &convCmd{}, "")
	})
	if findCommand(a.schemas, "x").Options[0].Converter == nil {
		t.Error("converter not resolved")
	}
}

func TestMustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBuild did not panic")
		}
	}()
	New("t").MustBuild()
}

func TestCommandError(t *testing.T) {
	e := NewCommandError(4, errors.New("boom"))
	if got, want := e.Error(), "boom"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got, want := NewCommandError(4, nil).Error(), "exit code 4"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	var u *UsageError
	if !errors.As(NewUsageError(ErrMissingCommand), &u) || !errors.Is(u, ErrMissingCommand) {
		t.Error("UsageError does not unwrap")
	}
}
