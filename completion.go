// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/posener/complete/v2"
)

// Methods for github.com/posener/complete.Completer.

// A completer is a node in the command tree. name is the full command name
// of the node; schema is nil if no command has exactly that name.
type completer struct {
	app    *App
	name   string
	schema *CommandSchema
}

func (a *App) completer() *completer {
	return &completer{app: a, schema: findCommand(a.schemas, "")}
}

// nextWords returns the distinct words that can follow c's name.
func (c *completer) nextWords() []string {
	seen := map[string]bool{}
	var words []string
	for _, s := range descendants(c.app.schemas, c.name) {
		rest := strings.TrimPrefix(s.Name[len(c.name):], " ")
		w := strings.Fields(rest)[0]
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	return words
}

func (c *completer) SubCmdList() []string {
	return c.nextWords()
}

func (c *completer) SubCmdGet(cmd string) complete.Completer {
	sub := c.sub(cmd)
	if sub == nil {
		return nil
	}
	return sub
}

func (c *completer) sub(word string) *completer {
	for _, w := range c.nextWords() {
		if strings.EqualFold(w, word) {
			name := w
			if c.name != "" {
				name = c.name + " " + w
			}
			return &completer{app: c.app, name: name, schema: findCommand(c.app.schemas, name)}
		}
	}
	return nil
}

func (c *completer) FlagList() []string {
	var flags []string
	if c.schema != nil {
		for _, o := range c.schema.Options {
			if o.Name != "" {
				flags = append(flags, o.Name)
			}
			if o.ShortName != 0 {
				flags = append(flags, string(o.ShortName))
			}
		}
	}
	return append(flags, helpOption.Name, string(helpOption.ShortName), versionOption.Name)
}

func (c *completer) FlagGet(flag string) complete.Predictor {
	if c.schema == nil {
		return nil
	}
	for _, o := range c.schema.Options {
		if o.MatchesAlias(flag) {
			if isBoolMember(&o.Member) {
				return nil
			}
			return c.predictor(&o.Member)
		}
	}
	return nil
}

func (c *completer) ArgsGet() complete.Predictor {
	if c.schema == nil {
		return nil
	}
	for _, p := range c.schema.sortedParameters() {
		if pr := c.predictor(&p.Member); pr != nil {
			return pr
		}
	}
	return nil
}

// predictor suggests the fixed choices of m, if it has any.
func (c *completer) predictor(m *Member) complete.Predictor {
	choices := c.app.choices(m)
	if len(choices) == 0 {
		return nil
	}
	return complete.PredictFunc(func(prefix string) []string {
		return withPrefix(choices, prefix)
	})
}

func withPrefix(words []string, prefix string) []string {
	var r []string
	for _, w := range words {
		if strings.HasPrefix(strings.ToLower(w), strings.ToLower(prefix)) {
			r = append(r, w)
		}
	}
	return r
}

// suggestions returns the completions for the last word of args, which
// follows the [suggest] directive. A single argument is taken to be the
// whole command line, as a shell passes it.
func (a *App) suggestions(args []string) []string {
	words := args
	if len(args) == 1 && strings.ContainsAny(args[0], " \t") {
		ws, err := shellquote.Split(args[0])
		if err != nil {
			a.logger.Debug("cannot split command line", "line", args[0], "err", err)
			return nil
		}
		words = ws
		if strings.HasSuffix(args[0], " ") {
			words = append(words, "")
		}
	}
	if len(words) > 0 && words[0] == a.executable {
		words = words[1:]
	}
	if len(words) == 0 {
		words = []string{""}
	}
	prefix := words[len(words)-1]
	c := a.completer()
	var prev string
	for _, w := range words[:len(words)-1] {
		if sub := c.sub(w); sub != nil {
			c = sub
		}
		prev = w
	}

	var cands []string
	switch {
	case strings.HasPrefix(prefix, "--"):
		for _, f := range c.FlagList() {
			if len(f) > 1 {
				cands = append(cands, "--"+f)
			}
		}
	case strings.HasPrefix(prefix, "-"):
		for _, f := range c.FlagList() {
			if len(f) == 1 {
				cands = append(cands, "-"+f)
			} else {
				cands = append(cands, "--"+f)
			}
		}
	default:
		var p complete.Predictor
		if isOptionIdentifier(prev) {
			p = c.FlagGet(strings.TrimLeft(prev, "-"))
		}
		if p == nil {
			cands = append(cands, c.SubCmdList()...)
			p = c.ArgsGet()
		}
		if p != nil {
			cands = append(cands, p.Predict(prefix)...)
		}
	}
	return dedupSorted(withPrefix(cands, prefix))
}

func dedupSorted(ss []string) []string {
	sort.Strings(ss)
	var r []string
	for i, s := range ss {
		if i == 0 || s != ss[i-1] {
			r = append(r, s)
		}
	}
	return r
}
