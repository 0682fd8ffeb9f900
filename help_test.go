// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type copyCmd struct {
	Src   string   `cli:"name=src, source file"`
	Dsts  []string `cli:"name=dst, opt, destinations"`
	Force bool     `cli:"flag=force, short=f, overwrite existing files"`
	Mode  string   `cli:"flag=mode, env=CP_MODE, oneof=fast|slow, copy mode"`
	Count int      `cli:"flag=count, short=n, required, number of copies"`
}

func (*copyCmd) Run(context.Context) error { return nil }

func newHelpApp(t *testing.T) *App {
	return newTestApp(t, nil, nil, func(b *Builder) {
		b.SetVersion("v2").
			SetDescription("Copies files.").
			Register("copy", &copyCmd{Mode: "fast"}, "copy files").
			Register("remote", nil, "remote operations").
			Register("remote add", &nameCmd{}, "add a remote").
			Register("remote rm", &nameCmd{}, "remove a remote")
	})
}

func TestWriteHelp(t *testing.T) {
	a := newHelpApp(t)
	for _, test := range []struct {
		command string
		want    string
	}{
		{
			command: "",
			want: `test v2

Copies files.

Usage:
  test [command] [...]

Options:
  -h|--help    Show help text.
  --version    Show version information.

Commands:
  copy      copy files
  remote    remote operations Subcommands: add, rm.

Run "test [command] --help" for more information on a command.
`,
		},
		{
			command: "copy",
			want: `copy files

Usage:
  test copy <src> [<dst>...] --count|-n <value> [options]

Parameters:
* <src>    source file
  <dst>    destinations

Options:
  -f|--force    overwrite existing files
  --mode        copy mode (one of fast, slow) (env CP_MODE) (default "fast")
* -n|--count    number of copies
  -h|--help     Show help text.
  --version     Show version information.
`,
		},
		{
			command: "remote",
			want: `remote operations

Usage:
  test remote [command] [...]

Commands:
  add    add a remote
  rm     remove a remote

Run "test remote [command] --help" for more information on a command.
`,
		},
	} {
		s := a.root
		if test.command != "" {
			s = findCommand(a.schemas, test.command)
		}
		var buf bytes.Buffer
		a.writeHelp(&buf, s)
		if diff := cmp.Diff(test.want, buf.String()); diff != "" {
			t.Errorf("%q: mismatch (-want, +got):\n%s", test.command, diff)
		}
	}
}

func TestHelpFromRun(t *testing.T) {
	var buf bytes.Buffer
	a := newTestApp(t, &buf, nil, func(b *Builder) {
		b.Register("copy", &copyCmd{}, "copy files")
	})
	if err := a.Run(context.Background(), []string{"COPY", "-?"}); err != nil {
		t.Fatal(err)
	}
	want := "copy files\n\nUsage:\n  test copy <src> [<dst>...] --count|-n <value> [options]\n"
	if got := buf.String(); len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("got\n%s\nwant it to start with\n%s", got, want)
	}
}

func TestWrap(t *testing.T) {
	for _, test := range []struct {
		text  string
		width int
		want  string
	}{
		{"", 30, ""},
		{"one two", 30, "one two"},
		{"  one   two  ", 30, "one two"},
		{"one two three four five six seven eight", 20, "one two three four\nfive six seven eight"},
		{"one two three four five six seven eight", 5, "one two three four\nfive six seven eight"},
		{"a\nb c", 30, "a\nb c"},
		{"averyveryveryverylongword x", 20, "averyveryveryverylongword\nx"},
		{"ééééé ééééé ééééé ééééé", 20, "ééééé ééééé ééééé\nééééé"},
		{"日本語 日本語 日本語 日本語", 20, "日本語 日本語 日本語\n日本語"},
	} {
		if got := wrap(test.text, test.width); got != test.want {
			t.Errorf("wrap(%q, %d) = %q, want %q", test.text, test.width, got, test.want)
		}
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, [][2]string{
		{"a", "one two three four five six seven eight"},
		{"bcd", ""},
		{"ef", "x"},
	}, 27)
	want := "" +
		"a      one two three four\n" +
		"       five six seven eight\n" +
		"bcd\n" +
		"ef     x\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	buf.Reset()
	writeTable(&buf, [][2]string{
		{"--größe", "Größe in Bytes"},
		{"--名前", "名前"},
		{"--n", "x"},
	}, 40)
	want = "" +
		"--größe    Größe in Bytes\n" +
		"--名前     名前\n" +
		"--n        x\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("non-ASCII mismatch (-want, +got):\n%s", diff)
	}
}

type level int

type levelsCmd struct {
	Levels []level `cli:"flag=levels, levels to show"`
	Max    *level  `cli:"flag=max"`
	Names  []string
}

func (*levelsCmd) Run(context.Context) error { return nil }

func TestMemberDoc(t *testing.T) {
	a := newTestApp(t, nil, nil, func(b *Builder) {
		AddEnum(b, map[string]level{"low": 1, "high": 2})
		b.Register("x", &levelsCmd{Levels: []level{1, 2}, Names: []string{"a", "b"}}, "")
	})
	s := findCommand(a.schemas, "x")
	for _, test := range []struct {
		m    *Member
		want string
	}{
		{&s.Options[0].Member, "levels to show (one of low, high) (default 1 2)"},
		{&s.Options[1].Member, "(one of low, high)"},
		{&s.Parameters[0].Member, `(default "a" "b")`},
	} {
		if got := a.memberDoc(s, test.m, ""); got != test.want {
			t.Errorf("%s: got %q, want %q", test.m.Field, got, test.want)
		}
	}
}
