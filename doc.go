// Copyright 2021 Jonathan Amsterdam.

/*
Package cli helps to build command-line programs with multiple commands.
A command is created by defining a struct with a Run method. The exported
fields of the struct are populated with the parameters and options
passed on the command line, as determined by struct tags. For example,
here is a struct that could be used for a "compare" command that takes
two files and a "-v" option:

	type compare struct {
	  Verbose bool         `cli:"flag=v, verbose output"`
	  File1, File2 string
	}

The command's logic is provided in a Run method:

	func (c *compare) Run(ctx context.Context) error {
	  return diff(c.Verbose, c.File1, c.File2)
	}

Before the Run method is called, the command line is parsed and its values
are converted and assigned to the fields of a copy of the registered struct.

# Registration

Commands are registered with a [Builder], usually at program startup.
Command names may have several words; "remote add" is a sub-command of
"remote". The empty name is the default command, run when the command line
names no other.

	app := cli.New("Differ").
	  SetVersion("v1.0.0").
	  Register("compare", &compare{}, "compare two files").
	  Register("remote", nil, "commands for remote files").
	  Register("remote fetch", &fetch{}, "fetch a remote file").
	  MustBuild()

A nil struct declares a group, which only shows help for the commands below it.
Field values of the registered struct are the defaults for each run.

Build checks the commands for mistakes, such as two options with the same name,
and reports the first one as a [*SchemaError]. Schemas can also be written out
as [CommandSchema] values and added with [Builder.RegisterSchema].

# Struct Tags

Each exported field can have a struct tag with a "cli" key that provides the
documentation for the parameter or option as well as some settings. An exported
field without a tag is treated as a required positional parameter with no
documentation. Unexported fields are ignored, as are fields tagged "-".

The tag syntax is a comma-separated list of key=value pairs. The keys are:

  - flag:  The field is an option. The value is the option's name; if empty,
    the lower-cased field name is used. A one-letter name is a short name.
  - short: The option's one-letter short name.
  - env:   An environment variable to use when the option is not given.
  - required: The option must be provided. Takes no value.
  - name:  The name of the parameter, used in documentation.
  - order: The position of the parameter. By default, the field's index.
  - opt:   The parameter may be omitted. Takes no value.
  - oneof: A "|"-separated list of strings that the value must match.
    A field with "oneof" must be of a string type.
  - converter: The name of a [Converter] added with [Builder.AddConverter].
  - validators: A "|"-separated list of names of [Validator]s added with [Builder.AddValidator].
  - doc:   The usage string. This key can be omitted when the usage string is last.

For example, the field and struct tag

	Environ string `cli:"flag=env, short=e, env=APP_ENV, oneof=dev|prod, development environment"`

makes an option that can be given as --env or -e, falls back to the APP_ENV
environment variable, and checks that the value is either "dev" or "prod".

As a convenience, this package can interpret bare struct tags that don't have
the usual 'key:"value"' format:

	type cmd struct {
	  InFile string "flag=in, the input file"
	}

# Command Lines

A command line consists of directives in brackets, the command name,
parameters, and options, in that order:

	prog [preview] remote fetch a.txt b.txt --retries 3 -qv

Options are introduced by "--name" or by "-x", where several short names can
be combined. Every argument after an option up to the next option is a value
for it. An argument like "-13" is a value, not an option. Repeating an option
adds to its values.

A field's type can be a string, bool, integer, floating point, time.Time or
time.Duration type, a type that implements [encoding.TextUnmarshaler] or
[flag.Value], an enum added with [AddEnum], any type with a parser added
with [AddParser], or a pointer to one of those. Slices, arrays and set-like maps
of those types take any number of values. A non-scalar parameter must be the last one.
A bool option with no value is true.

Every command accepts --help (or -h, -?) and --version. The directives are
[preview], which shows how the command line was parsed, [suggest], which lists
completions for the last argument, and [debug], which waits for a debugger
to attach before running the command.

# Execution

Once the App has been built, call its Main method to invoke the appropriate
command and get back an exit code. Usage errors exit with code 2 after
printing the command's help. A command can choose its exit code by returning
a [*CommandError].

	func main() {
	  os.Exit(app.Main(context.Background()))
	}

For more control, call App.Run with a context and a slice of arguments,
and handle the error yourself.

# Completion

Shell completion for common shells is supported with the
github.com/posener/complete/v2 package. Completion logic is automatically
invoked if your program calls App.Main. To install completion for a program,
run it with the COMP_INSTALL environment variable set to 1.
*/
package cli
