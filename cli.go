// Copyright 2021 Jonathan Amsterdam.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
)

// Command is implemented by every runnable command. The exported fields of the
// command struct are populated from the command line before Run is called.
type Command interface {
	Run(ctx context.Context) error
}

// A Builder collects command schemas and application settings.
// Call Build to validate the schemas and obtain an App.
type Builder struct {
	title       string
	executable  string
	version     string
	description string

	schemas []*CommandSchema
	errs    *multierror.Error

	types      *typeRegistry
	converters map[string]Converter
	validators map[string]Validator

	activator Activator
	logger    *log.Logger
	env       map[string]string
	envFiles  []string
	stdout    io.Writer
	stderr    io.Writer

	debugMode   bool
	previewMode bool
	suggestMode bool
}

// New returns a Builder for an application with the given title.
func New(title string) *Builder {
	return &Builder{
		title:       title,
		executable:  filepath.Base(os.Args[0]),
		types:       newTypeRegistry(),
		converters:  map[string]Converter{},
		validators:  map[string]Validator{},
		debugMode:   true,
		previewMode: true,
		suggestMode: true,
	}
}

// Register adds a command whose schema is derived from the struct tags of cmd.
// A nil cmd declares a group: a name that only shows help for its sub-commands.
// Errors in the tags are reported by Build.
func (b *Builder) Register(name string, cmd Command, doc string) *Builder {
	var x interface{}
	if cmd != nil {
		x = cmd
	}
	s, err := schemaOf(name, x, doc)
	if err != nil {
		b.errs = multierror.Append(b.errs, err)
		return b
	}
	b.schemas = append(b.schemas, s)
	return b
}

// RegisterSchema adds a command described directly as data.
func (b *Builder) RegisterSchema(s *CommandSchema) *Builder {
	b.schemas = append(b.schemas, s)
	return b
}

func (b *Builder) SetExecutableName(name string) *Builder {
	b.executable = name
	return b
}

func (b *Builder) SetVersion(version string) *Builder {
	b.version = version
	return b
}

func (b *Builder) SetDescription(doc string) *Builder {
	b.description = strings.TrimSpace(doc)
	return b
}

// UseEnvironment replaces the process environment as the source of
// option fallback values. It is mostly useful in tests.
func (b *Builder) UseEnvironment(env map[string]string) *Builder {
	b.env = env
	return b
}

// UseEnvFiles loads variables from the given dotenv files on every run.
// Variables already present in the environment take precedence.
func (b *Builder) UseEnvFiles(paths ...string) *Builder {
	b.envFiles = append(b.envFiles, paths...)
	return b
}

func (b *Builder) UseActivator(a Activator) *Builder {
	b.activator = a
	return b
}

func (b *Builder) UseLogger(l *log.Logger) *Builder {
	b.logger = l
	return b
}

// UseOutput sets the writers for help, version and error output.
// A nil writer means the corresponding os.Stdout or os.Stderr at the time of the run.
func (b *Builder) UseOutput(stdout, stderr io.Writer) *Builder {
	b.stdout = stdout
	b.stderr = stderr
	return b
}

func (b *Builder) AllowDebugMode(allow bool) *Builder {
	b.debugMode = allow
	return b
}

func (b *Builder) AllowPreviewMode(allow bool) *Builder {
	b.previewMode = allow
	return b
}

func (b *Builder) AllowSuggestMode(allow bool) *Builder {
	b.suggestMode = allow
	return b
}

// AddConverter makes c available to struct tags as converter=name.
func (b *Builder) AddConverter(name string, c Converter) *Builder {
	b.converters[name] = c
	return b
}

// AddValidator makes v available to struct tags as validators=name.
func (b *Builder) AddValidator(name string, v Validator) *Builder {
	b.validators[name] = v
	return b
}

// Build resolves and validates all registered schemas.
// The returned App is immutable and safe for concurrent use.
func (b *Builder) Build() (*App, error) {
	if b.errs != nil {
		b.errs.ErrorFormat = listErrors
		return nil, b.errs.ErrorOrNil()
	}
	for _, s := range b.schemas {
		if err := b.resolveSchema(s); err != nil {
			return nil, err
		}
	}
	if err := ValidateSchemas(b.schemas); err != nil {
		return nil, err
	}
	a := &App{
		title:       b.title,
		executable:  b.executable,
		version:     b.version,
		description: b.description,
		schemas:     b.schemas,
		types:       b.types,
		activator:   b.activator,
		logger:      b.logger,
		env:         b.env,
		envFiles:    b.envFiles,
		stdout:      b.stdout,
		stderr:      b.stderr,
		debugMode:   b.debugMode,
		previewMode: b.previewMode,
		suggestMode: b.suggestMode,
	}
	if a.activator == nil {
		a.activator = ActivatorFunc(activate)
	}
	if a.logger == nil {
		a.logger = log.New(os.Stderr)
		a.logger.SetTimeFormat("")
		a.logger.SetPrefix(b.title)
		a.logger.SetLevel(log.WarnLevel)
	}
	for _, s := range b.schemas {
		if s.Name != "" {
			a.names = append(a.names, s.Name)
		}
	}
	a.root = findCommand(a.schemas, "")
	if a.root == nil {
		a.root = &CommandSchema{Description: b.description}
	}
	return a, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *App {
	a, err := b.Build()
	if err != nil {
		panic(err)
	}
	return a
}

func listErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// An App is a built, validated set of commands.
type App struct {
	title       string
	executable  string
	version     string
	description string

	schemas []*CommandSchema
	names   []string       // names of all named commands
	root    *CommandSchema // default command, or a group standing in for it

	types     *typeRegistry
	activator Activator
	logger    *log.Logger
	env       map[string]string
	envFiles  []string
	stdout    io.Writer
	stderr    io.Writer

	debugMode   bool
	previewMode bool
	suggestMode bool
}

// Schemas returns the command schemas of the application.
// They must not be modified.
func (a *App) Schemas() []*CommandSchema {
	return a.schemas
}

func (a *App) out() io.Writer {
	if a.stdout != nil {
		return a.stdout
	}
	return os.Stdout
}

func (a *App) errOut() io.Writer {
	if a.stderr != nil {
		return a.stderr
	}
	return os.Stderr
}

// UsageError is an error in how the command is invoked.
type UsageError struct {
	Command *CommandSchema // the command being invoked, if known
	Err     error
}

func NewUsageError(err error) *UsageError {
	return &UsageError{Err: err}
}

func (u *UsageError) Error() string {
	return u.Err.Error()
}

func (u *UsageError) Unwrap() error {
	return u.Err
}

// CommandError is returned by a command to exit with a specific code.
type CommandError struct {
	Code     int
	Err      error
	ShowHelp bool // print the command's help after the message

	command *CommandSchema
}

func NewCommandError(code int, err error) *CommandError {
	return &CommandError{Code: code, Err: err}
}

func (e *CommandError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Sentinel errors for problems with user input. They are wrapped in a *UsageError.
var (
	ErrMissingParameters    = errors.New("missing required parameter(s)")
	ErrUnexpectedParameters = errors.New("unexpected parameter(s)")
	ErrMissingOptions       = errors.New("missing required option(s)")
	ErrUnrecognizedOptions  = errors.New("unrecognized option(s)")
	ErrTooManyValues        = errors.New("expected a single value")
	ErrConversion           = errors.New("cannot convert")
	ErrInvalidValue         = errors.New("invalid value")
	ErrUnknownCommand       = errors.New("unknown command")
	ErrMissingCommand       = errors.New("missing command")
	ErrUnknownDirective     = errors.New("unknown directive")
)

// ErrUnsupportedType is returned when no conversion exists for a member's type.
// It indicates a mistake in the command declaration rather than in the input.
var ErrUnsupportedType = errors.New("unsupported type")

// ErrActivation is returned when a command instance cannot be created.
var ErrActivation = errors.New("cannot activate command")
