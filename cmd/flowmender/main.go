package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func main() {
	if err := newCommand(afero.NewOsFs(), os.Stdin, os.Stdout).Run(context.Background(), os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}

		os.Exit(exitCode(err))
	}
}

func newCommand(fs afero.Fs, stdin io.Reader, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:                  "flowmender",
		Usage:                 "Validate and repair workflow automation graphs",
		EnableShellCompletion: true,
		Reader:                stdin,
		Writer:                stdout,
		// main owns the process exit code.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Commands: []*cli.Command{
			validateCommand(fs),
			typesCommand(),
			serveCommand(),
		},
	}
}

func exitCode(err error) int {
	if coder, ok := err.(cli.ExitCoder); ok {
		return coder.ExitCode()
	}

	return 1
}

// commonFlags are shared by every command that builds a validation context.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "catalog",
			Usage:   "Catalog overlay file (YAML or JSON) applied on top of the built-in catalog",
			Sources: cli.EnvVars("FLOWMENDER_CATALOG"),
		},
		&cli.StringFlag{
			Name:     "plugins-path",
			Usage:    "Path to the directory containing correction rule plugins",
			Value:    "./plugins",
			Required: false,
		},
		&cli.BoolFlag{
			Name:  "credential-refs",
			Usage: "Treat credential references ({\"id\": ...}) as managed out of band",
		},
	}
}
