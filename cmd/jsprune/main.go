package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/jsprune/pkg/config"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "jsprune",
		Usage:   "Remove unused functions from library JavaScript",
		Version: version,
		Description: `jsprune reads library JavaScript and the application code that uses it,
then removes every named library function the application cannot reach.

Functions are matched by name: declarations (function f() {}), property
assignments (ns.f = function() {}) and object literal members ({f: function() {}}).`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"JSPRUNE_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log each pass and removal to stderr",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		// main reports errors and picks the exit status.
		ExitErrHandler: func(*cli.Context, error) {},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			pruneCmd(),
			initCmd(),
			mcpCmd(),
			cacheCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			if msg := exit.Error(); msg != "" {
				color.Red("Error: %s", msg)
			}
			os.Exit(exit.ExitCode())
		}
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// loadConfig reads --config when given, otherwise the first config file
// found in the working directory.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	return config.LoadOrDefault(), nil
}

// newLogger returns a stderr text logger; debug records are shown only
// with --verbose.
func newLogger(c *cli.Context, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
