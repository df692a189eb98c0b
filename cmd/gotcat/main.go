// Command gotcat queries and warms cached gettext catalogs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ZaguanLabs/gotcat"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = gotcat.FullVersion()
	commit    = gotcat.GitCommit
	buildDate = gotcat.BuildDate
)

func main() {
	if err := run(context.Background(), os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	return newApp(stdout, stderr).Run(ctx, args)
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      gotcat.Name,
		Usage:     gotcat.Description,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "show version info",
				HideDefault: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML configuration file",
				Sources: cli.EnvVars("GOTCAT_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "locale",
				Aliases: []string{"l"},
				Usage:   "locale to translate into, e.g. es or es_MX",
				Sources: cli.EnvVars("GOTCAT_LOCALE"),
			},
			&cli.StringSliceFlag{
				Name:  "bind",
				Usage: "bind a domain as NAME=DIR (repeatable)",
			},
			&cli.StringFlag{
				Name:  "cache",
				Usage: "cache backend: none, memory, redis or sqlite",
			},
			&cli.StringFlag{
				Name:  "snapshot-dir",
				Usage: "directory for compiled catalog snapshots",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			translateCommand(),
			pluralCommand(),
			keyCommand(),
			warmCommand(),
			diffCommand(),
			clearCommand(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("version") {
				printVersion(cmd.Root().Writer)
				return nil
			}
			return cli.ShowRootCommandHelp(cmd)
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", gotcat.Name, version)
	if commit != "unknown" && commit != "" {
		fmt.Fprintf(w, "  commit:  %s\n", commit)
	}
	if buildDate != "unknown" && buildDate != "" {
		fmt.Fprintf(w, "  built:   %s\n", buildDate)
	}
}
