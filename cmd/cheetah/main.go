// Package main is the cheetah front-end CLI. It exposes the lexer and
// parser as subcommands so source files can be tokenized, syntax-checked,
// and dumped as trees without a full toolchain.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

var noColor bool
var lexVerbose bool

func main() {
	app := cli.NewApp()
	app.Name = "cheetah"
	app.Usage = "front end for the cheetah language"

	noColorFlag := cli.BoolFlag{
		Name:        "no-color",
		Usage:       "hide colors in error messages",
		Destination: &noColor,
	}

	verboseFlag := cli.BoolFlag{
		Name:        "verbose",
		Usage:       "show token spans and decoded literal values",
		Destination: &lexVerbose,
	}

	app.Flags = []cli.Flag{noColorFlag}

	app.Commands = []cli.Command{
		{
			Name:    "lex",
			Aliases: []string{"l"},
			Usage:   "Tokenize file(s) and print the token stream",
			Flags:   []cli.Flag{noColorFlag, verboseFlag},
			Action: func(c *cli.Context) error {
				files := readSourceFiles(c.Args())
				failed := false
				for _, f := range files {
					if !lexFile(f) {
						failed = true
					}
				}
				return exitStatus(failed)
			},
		},
		{
			Name:    "check",
			Aliases: []string{"c"},
			Usage:   "Check the syntax of file(s) without building trees",
			Flags:   []cli.Flag{noColorFlag},
			Action: func(c *cli.Context) error {
				files := readSourceFiles(c.Args())
				return exitStatus(!checkFiles(files))
			},
		},
		{
			Name:    "ast",
			Aliases: []string{"a"},
			Usage:   "Parse file(s) and print each syntax tree",
			Flags:   []cli.Flag{noColorFlag},
			Action: func(c *cli.Context) error {
				files := readSourceFiles(c.Args())
				failed := false
				for _, f := range files {
					if !dumpFile(f) {
						failed = true
					}
				}
				return exitStatus(failed)
			},
		},
		{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Re-check file(s) whenever they change on disk",
			Flags:   []cli.Flag{noColorFlag},
			Action: func(c *cli.Context) error {
				files := readSourceFiles(c.Args())
				if len(files) == 0 {
					return cli.NewExitError("watch: no source files", 2)
				}
				return watchFiles(files)
			},
		},
	}

	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// exitStatus maps a failure flag to the process exit code: diagnostics have
// already been printed, so the error itself carries no message.
func exitStatus(failed bool) error {
	if failed {
		return cli.NewExitError("", 1)
	}
	return nil
}
