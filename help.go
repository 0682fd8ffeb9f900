// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// Code to write help text from command schemas.

const defaultHelpWidth = 80

var heading = color.New(color.FgYellow, color.Bold)

// writeHelp writes the help text for s to w.
func (a *App) writeHelp(w io.Writer, s *CommandSchema) {
	width := helpWidth(w)
	if s == a.root && a.title != "" {
		title := a.title
		if a.version != "" {
			title += " " + a.version
		}
		fmt.Fprintf(w, "%s\n\n", title)
	}
	desc := s.Description
	if desc == "" && s == a.root {
		desc = a.description
	}
	if desc != "" {
		fmt.Fprintf(w, "%s\n\n", wrap(desc, width))
	}
	subs := children(a.schemas, s.Name)

	heading.Fprintln(w, "Usage:")
	if s.IsRunnable() {
		fmt.Fprintf(w, "  %s\n", a.usageLine(s))
	}
	if len(subs) > 0 {
		fmt.Fprintf(w, "  %s [command] [...]\n", a.commandPath(s))
	}

	if len(s.Parameters) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Parameters:")
		var rows [][2]string
		for _, p := range s.sortedParameters() {
			rows = append(rows, [2]string{marker(p.IsRequired) + p.String(), a.memberDoc(s, &p.Member, "")})
		}
		writeTable(w, rows, width)
	}

	if s.IsRunnable() || s == a.root {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Options:")
		var rows [][2]string
		for _, o := range s.Options {
			rows = append(rows, [2]string{marker(o.IsRequired) + helpName(o), a.memberDoc(s, &o.Member, o.EnvironmentVariable)})
		}
		for _, o := range []*OptionSchema{helpOption, versionOption} {
			rows = append(rows, [2]string{"  " + helpName(o), o.Description})
		}
		writeTable(w, rows, width)
	}

	if len(subs) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Commands:")
		var rows [][2]string
		for _, c := range subs {
			doc := c.Description
			if grand := children(a.schemas, c.Name); len(grand) > 0 {
				var names []string
				for _, g := range grand {
					names = append(names, lastWord(g.Name))
				}
				doc = strings.TrimSpace(doc + " Subcommands: " + strings.Join(names, ", ") + ".")
			}
			rows = append(rows, [2]string{"  " + lastWord(c.Name), doc})
		}
		writeTable(w, rows, width)
		fmt.Fprintf(w, "\nRun %q for more information on a command.\n", a.commandPath(s)+" [command] --help")
	}
}

func marker(required bool) string {
	if required {
		return "* "
	}
	return "  "
}

// helpName is the option's name as it is usually typed: -n|--name.
func helpName(o *OptionSchema) string {
	switch {
	case o.Name != "" && o.ShortName != 0:
		return "-" + string(o.ShortName) + "|--" + o.Name
	case o.Name != "":
		return "--" + o.Name
	default:
		return "-" + string(o.ShortName)
	}
}

func lastWord(name string) string {
	return name[strings.LastIndexByte(name, ' ')+1:]
}

func (a *App) commandPath(s *CommandSchema) string {
	if s.Name == "" {
		return a.executable
	}
	return a.executable + " " + s.Name
}

func (a *App) usageLine(s *CommandSchema) string {
	parts := []string{a.commandPath(s)}
	for _, p := range s.sortedParameters() {
		n := p.String()
		if !p.IsScalar() {
			n += "..."
		}
		if !p.IsRequired {
			n = "[" + n + "]"
		}
		parts = append(parts, n)
	}
	for _, o := range s.Options {
		if o.IsRequired {
			parts = append(parts, o.String()+" <value>")
		}
	}
	parts = append(parts, "[options]")
	return strings.Join(parts, " ")
}

// memberDoc is the description of m followed by its choices,
// environment variable and default value.
func (a *App) memberDoc(s *CommandSchema, m *Member, envVar string) string {
	doc := m.Description
	add := func(format string, args ...interface{}) {
		doc = strings.TrimSpace(doc + " " + fmt.Sprintf(format, args...))
	}
	if choices := a.choices(m); len(choices) > 0 {
		add("(one of %s)", strings.Join(choices, ", "))
	}
	if envVar != "" {
		add("(env %s)", envVar)
	}
	if d, ok := defaultValue(s, m); ok {
		add("(default %s)", d)
	}
	return doc
}

// choices returns the values m accepts, if there is a fixed set.
func (a *App) choices(m *Member) []string {
	if len(m.choices) > 0 {
		return m.choices
	}
	t := m.typ
	if t == nil {
		return nil
	}
	if !m.scalar || t.Kind() == reflect.Ptr {
		if t.Kind() == reflect.Map {
			t = t.Key()
		} else {
			t = t.Elem()
		}
	}
	if e, ok := a.types.enums[t]; ok {
		return e.names
	}
	return nil
}

// defaultValue formats the initial value of m's field in a new instance of s.
func defaultValue(s *CommandSchema, m *Member) (string, bool) {
	if !s.IsRunnable() || m.index == nil {
		return "", false
	}
	cmd, err := activate(s)
	if err != nil {
		return "", false
	}
	v := reflect.ValueOf(cmd).Elem().FieldByIndex(m.index)
	if v.IsZero() {
		return "", false
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "", false
		}
		var ss []string
		for i := 0; i < v.Len(); i++ {
			ss = append(ss, formatValue(v.Index(i)))
		}
		return strings.Join(ss, " "), true
	case reflect.Ptr:
		return formatValue(v.Elem()), true
	default:
		return formatValue(v), true
	}
}

func formatValue(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return fmt.Sprintf("%q", v.String())
	}
	return fmt.Sprint(v.Interface())
}

func helpWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 20 {
			return width
		}
	}
	return defaultHelpWidth
}

// writeTable writes two columns, wrapping the second to fit width.
// Widths are measured in terminal cells.
func writeTable(w io.Writer, rows [][2]string, width int) {
	left := 0
	for _, r := range rows {
		if n := lipgloss.Width(r[0]); n > left {
			left = n
		}
	}
	indent := strings.Repeat(" ", left+4)
	for _, r := range rows {
		if r[1] == "" {
			fmt.Fprintln(w, r[0])
			continue
		}
		lines := strings.Split(wrap(r[1], width-len(indent)), "\n")
		pad := strings.Repeat(" ", left-lipgloss.Width(r[0])+4)
		fmt.Fprintf(w, "%s%s%s\n", r[0], pad, lines[0])
		for _, l := range lines[1:] {
			fmt.Fprintf(w, "%s%s\n", indent, l)
		}
	}
}

// wrap breaks text into lines of at most width columns, at spaces.
// Existing line breaks are kept.
func wrap(text string, width int) string {
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	for i, para := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		n := 0
		for j, word := range strings.Fields(para) {
			ww := lipgloss.Width(word)
			if j > 0 {
				if n+1+ww > width {
					b.WriteByte('\n')
					n = 0
				} else {
					b.WriteByte(' ')
					n++
				}
			}
			b.WriteString(word)
			n += ww
		}
	}
	return b.String()
}
