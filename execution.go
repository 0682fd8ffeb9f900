// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/posener/complete/v2"
)

// Code for running commands.

// Main runs the app on the process arguments and returns an exit code.
// If the shell is asking for completions, Main answers and exits.
//
//	func main() {
//		os.Exit(app.Main(context.Background()))
//	}
func (a *App) Main(ctx context.Context) int {
	complete.Complete(a.executable, a.completer())
	return a.mainWithArgs(ctx, os.Args[1:])
}

func (a *App) mainWithArgs(ctx context.Context, args []string) int {
	return a.handleError(a.Run(ctx, args))
}

// Run parses args, binds them to the selected command and runs it.
// Requests for help or the version are answered without running anything.
func (a *App) Run(ctx context.Context, args []string) error {
	env, err := a.environment()
	if err != nil {
		return err
	}
	input := ParseInput(args, a.names, env)
	a.logger.Debug("parsed input", "input", input.String())

	for _, d := range input.Directives {
		if !a.directiveEnabled(d) {
			return &UsageError{Command: a.root, Err: fmt.Errorf("%w: [%s]", ErrUnknownDirective, d)}
		}
	}
	if input.IsDebugDirectiveSpecified() {
		if err := a.waitForDebugger(ctx); err != nil {
			return err
		}
	}
	if input.IsPreviewDirectiveSpecified() {
		writePreview(a.out(), input)
		return nil
	}
	if input.IsSuggestDirectiveSpecified() {
		for _, s := range a.suggestions(args[len(input.Directives):]) {
			fmt.Fprintln(a.out(), s)
		}
		return nil
	}

	c, ok := a.Resolve(input)
	if !ok {
		c = &Candidate{Schema: a.root, Parameters: input.Parameters, Input: input}
	}
	s := c.Schema
	if input.IsVersionOptionSpecified() {
		fmt.Fprintln(a.out(), a.versionText())
		return nil
	}
	if input.IsHelpOptionSpecified() {
		a.writeHelp(a.out(), s)
		return nil
	}
	if !s.IsRunnable() {
		return a.groupError(s, input)
	}

	cmd, err := a.activate(s)
	if err != nil {
		return err
	}
	if err := a.Bind(c, cmd); err != nil {
		return err
	}
	a.logger.Debug("running", "command", s.Name)
	err = cmd.Run(ctx)
	var (
		uerr *UsageError
		cerr *CommandError
	)
	if errors.As(err, &uerr) && uerr.Command == nil {
		uerr.Command = s
	}
	if errors.As(err, &cerr) && cerr.command == nil {
		cerr.command = s
	}
	return err
}

// groupError explains why a group cannot be invoked with the given input.
func (a *App) groupError(s *CommandSchema, input *CommandInput) error {
	if len(input.Parameters) > 0 {
		return &UsageError{Command: s, Err: fmt.Errorf("%w: %q", ErrUnknownCommand, input.Parameters[0])}
	}
	if len(input.Options) > 0 {
		var opts []string
		for _, o := range input.Options {
			opts = append(opts, o.String())
		}
		return &UsageError{Command: s, Err: fmt.Errorf("%w: %s", ErrUnrecognizedOptions, strings.Join(opts, ", "))}
	}
	return &UsageError{Command: s, Err: ErrMissingCommand}
}

func (a *App) directiveEnabled(d string) bool {
	switch strings.ToLower(d) {
	case "debug":
		return a.debugMode
	case "preview":
		return a.previewMode
	case "suggest":
		return a.suggestMode
	}
	return false
}

func (a *App) versionText() string {
	if a.version == "" {
		return "(unknown version)"
	}
	return a.version
}

// handleError reports err and returns the exit code for it.
func (a *App) handleError(err error) int {
	if err == nil {
		return 0
	}
	w := a.errOut()
	var (
		uerr *UsageError
		cerr *CommandError
	)
	switch {
	case errors.As(err, &cerr):
		if cerr.Err != nil {
			writeError(w, err)
		}
		if cerr.ShowHelp {
			s := cerr.command
			if s == nil {
				s = a.root
			}
			fmt.Fprintln(w)
			a.writeHelp(w, s)
		}
		if cerr.Code == 0 {
			return 1
		}
		return cerr.Code
	case errors.As(err, &uerr):
		writeError(w, err)
		s := uerr.Command
		if s == nil {
			s = a.root
		}
		fmt.Fprintln(w)
		a.writeHelp(w, s)
		return 2
	default:
		writeError(w, err)
		return 1
	}
}

func writeError(w io.Writer, err error) {
	color.New(color.FgRed).Fprintln(w, err)
}

// writePreview shows how the input was parsed, in the same format as CommandInput.String.
func writePreview(w io.Writer, in *CommandInput) {
	var (
		directive = color.New(color.FgCyan).SprintFunc()
		command   = color.New(color.FgYellow).SprintFunc()
		param     = color.New(color.FgWhite).SprintFunc()
		option    = color.New(color.FgBlue).SprintFunc()
	)
	var parts []string
	for _, d := range in.Directives {
		parts = append(parts, directive("["+d+"]"))
	}
	if in.CommandName != "" {
		parts = append(parts, command(in.CommandName))
	}
	for _, p := range in.Parameters {
		parts = append(parts, param("<"+p+">"))
	}
	for _, o := range in.Options {
		parts = append(parts, "["+strings.Join(append([]string{option(o.String())}, o.Values...), " ")+"]")
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}
