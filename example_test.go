// Copyright 2021 Jonathan Amsterdam.

package cli_test

import (
	"context"
	"fmt"
	"os"

	"github.com/jba/cli/v2"
)

type (
	Bool bool
	Int  int
)

type show struct {
	Verbose bool    `cli:"flag=v,more detail"`
	Bun     Bool    `cli:"flag=, demo underlying bool"`
	Limit   Int     `cli:"flag=limit , max to show"`
	Nums    []int   `cli:"flag=nums, some numbers"`
	ID      string  `cli:"identifier of value to show"`
	F       float64 `cli:"name=flo, a float value"`
}

func (c *show) Run(ctx context.Context) error {
	fmt.Printf("showing %s, %g\n", c.ID, c.F)
	if c.Verbose {
		fmt.Println("verbosely")
	}
	if c.Bun {
		fmt.Println("bun is true")
	}
	fmt.Printf("limit = %d\n", c.Limit)
	fmt.Printf("nums = %v\n", c.Nums)
	return nil
}

func newApp() *cli.App {
	return cli.New("Demo").
		SetExecutableName("demo").
		UseEnvironment(map[string]string{}).
		UseOutput(os.Stdout, os.Stdout).
		Register("show", &show{Limit: 10}, "show a thing").
		MustBuild()
}

func Example() {
	err := newApp().Run(context.Background(), []string{
		"show", "abc", "3.2", "-v", "--bun", "--limit", "8", "--nums", "1", "-2", "3"})
	if err != nil {
		fmt.Printf("Error: %v", err)
	}

	// Output:
	// showing abc, 3.2
	// verbosely
	// bun is true
	// limit = 8
	// nums = [1 -2 3]
}

func Example_help() {
	newApp().Run(context.Background(), []string{"show", "--help"})

	// Output:
	// show a thing
	//
	// Usage:
	//   demo show <id> <flo> [options]
	//
	// Parameters:
	// * <id>     identifier of value to show
	// * <flo>    a float value
	//
	// Options:
	//   -v           more detail
	//   --bun        demo underlying bool
	//   --limit      max to show (default 10)
	//   --nums       some numbers
	//   -h|--help    Show help text.
	//   --version    Show version information.
}

func Example_usageError() {
	app := newApp()
	err := app.Run(context.Background(), []string{"show", "abc", "x"})
	fmt.Println(err)

	// Output:
	// cannot convert "x" for <flo>: invalid syntax
}
