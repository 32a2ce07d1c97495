package main

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/jsprune/internal/cache"
	"github.com/panbanda/jsprune/internal/output"
	"github.com/panbanda/jsprune/internal/progress"
	svc "github.com/panbanda/jsprune/internal/service/prune"
	"github.com/panbanda/jsprune/pkg/analyzer"
	"github.com/panbanda/jsprune/pkg/analyzer/prune"
	"github.com/panbanda/jsprune/pkg/config"
	"github.com/panbanda/jsprune/pkg/printer"
	"github.com/panbanda/jsprune/pkg/watch"
)

// exitParseFailed is the exit status when any input has syntax errors.
const exitParseFailed = 2

func pruneCmd() *cli.Command {
	return &cli.Command{
		Name:      "prune",
		Usage:     "Prune library code against application call sites",
		ArgsUsage: "[app path...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "lib",
				Aliases:  []string{"l"},
				Usage:    "Library file or directory to prune (repeatable)",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "app",
				Aliases: []string{"a"},
				Usage:   "Application file or directory (repeatable; positional args are added)",
			},
			&cli.StringSliceFlag{
				Name:    "keep",
				Aliases: []string{"k"},
				Usage:   "Function name that is always kept (repeatable)",
			},
			&cli.IntFlag{
				Name:  "passes",
				Usage: "Number of prune passes (default from config, 2)",
			},
			&cli.BoolFlag{
				Name:  "fixed-point",
				Usage: "Repeat passes until nothing more is removed",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Usage:   "Parallel application parsers (0 = 2x CPUs)",
			},
			&cli.BoolFlag{
				Name:  "lax",
				Usage: "Accept trailing commas in array and object literals",
			},
			&cli.BoolFlag{
				Name:  "minify",
				Usage: "Minify the pruned output",
			},
			&cli.BoolFlag{
				Name:  "gzip",
				Usage: "Gzip the pruned output",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write pruned source to file instead of stdout",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format: text, json, markdown, toon",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write the report to file instead of stderr",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable the result cache",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Rerun whenever a library or application file changes",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "Quiet period before a watched change triggers a run",
			},
		},
		Action: runPruneCmd,
	}
}

// pruneOptions are the resolved flag and config values of one invocation.
type pruneOptions struct {
	request svc.Request
	config  *config.Config
	output  string
	report  string
	format  output.Format
}

func resolvePruneOptions(c *cli.Context) (*pruneOptions, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	if c.IsSet("passes") {
		cfg.Prune.Passes = c.Int("passes")
	}
	if c.Bool("fixed-point") {
		cfg.Prune.FixedPoint = true
	}
	if c.IsSet("workers") {
		cfg.Prune.Workers = c.Int("workers")
	}
	if c.Bool("lax") {
		cfg.Prune.Strict = false
	}
	if c.Bool("minify") {
		cfg.Output.Minify = true
	}
	if c.Bool("gzip") {
		cfg.Output.Gzip = true
	}
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apps := append(c.StringSlice("app"), c.Args().Slice()...)
	return &pruneOptions{
		request: svc.Request{
			LibraryPaths: c.StringSlice("lib"),
			AppPaths:     apps,
			Externs:      c.StringSlice("keep"),
		},
		config: cfg,
		output: c.String("output"),
		report: c.String("report"),
		format: output.ParseFormat(cfg.Output.Format),
	}, nil
}

func runPruneCmd(c *cli.Context) error {
	opts, err := resolvePruneOptions(c)
	if err != nil {
		return err
	}

	logger := newLogger(c, c.App.ErrWriter)
	rc, err := cache.New(opts.config.Cache.Dir, opts.config.Cache.TTL, opts.config.Cache.Enabled)
	if err != nil {
		logger.Warn("cache disabled", "error", err)
		rc, _ = cache.New("", 0, false)
	}
	service := svc.New(svc.WithConfig(opts.config), svc.WithCache(rc), svc.WithLogger(logger))

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if !c.Bool("watch") {
		return pruneOnce(ctx, c, service, opts, logger)
	}

	if err := pruneOnce(ctx, c, service, opts, logger); err != nil {
		logger.Error("prune failed", "error", err)
	}

	roots := append(append([]string{}, opts.request.LibraryPaths...), opts.request.AppPaths...)
	for i, r := range roots {
		if abs, err := filepath.Abs(r); err == nil {
			roots[i] = abs
		}
	}
	watcher, err := watch.NewWatcher(roots, opts.config, c.Duration("debounce"), logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	watcher.SetCallback(func(changed []string) {
		logger.Info("change detected", "files", changed)
		if err := pruneOnce(ctx, c, service, opts, logger); err != nil {
			logger.Error("prune failed", "error", err)
		}
	})

	if err := watcher.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func pruneOnce(ctx context.Context, c *cli.Context, service *svc.Service, opts *pruneOptions, logger *slog.Logger) error {
	start := time.Now()

	var bar *progress.Bar
	if !opts.config.Output.Verbose && isTerminal(c.App.ErrWriter) {
		bar = progress.NewWithWriter("parsing", c.App.ErrWriter)
		ctx = analyzer.WithTracker(ctx, bar.Tracker())
	}

	resp, err := service.Run(ctx, opts.request)
	if bar != nil {
		if err != nil {
			bar.FinishError(err)
		} else {
			bar.FinishSuccess()
		}
	}
	if err != nil {
		return err
	}

	result := resp.Result
	text := result.Output
	if !result.Failed() && opts.config.Output.Minify {
		if text, err = printer.Minify(text); err != nil {
			return err
		}
	}

	written := 0
	if !result.Failed() {
		if written, err = writeSource(c.App.Writer, opts.output, text, opts.config.Output.Gzip); err != nil {
			return err
		}
	}

	if err := writeReport(c, opts, &output.PruneReport{
		Result:      result,
		Verbose:     opts.config.Output.Verbose,
		InputBytes:  resp.InputBytes,
		OutputBytes: written,
	}); err != nil {
		return err
	}

	logger.Debug("run complete", "elapsed", time.Since(start), "cached", resp.Cached)

	if result.Failed() {
		return &exitError{
			err:  fmt.Errorf("%w: %d diagnostic(s)", prune.ErrParseFailed, len(result.Diagnostics)),
			code: exitParseFailed,
		}
	}
	return nil
}

// writeSource writes the pruned source to path, or to stdout when path is
// empty, and returns the number of bytes of source written. With compress,
// a gzip copy is written to path+".gz", or the stdout stream is gzipped.
func writeSource(stdout io.Writer, path, text string, compress bool) (int, error) {
	if path == "" {
		if !compress {
			return io.WriteString(stdout, text)
		}
		return len(text), writeGzip(stdout, "", text)
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return 0, err
	}
	if !compress {
		return len(text), nil
	}

	f, err := os.Create(path + ".gz")
	if err != nil {
		return 0, err
	}
	defer f.Close()
	if err := writeGzip(f, filepath.Base(path), text); err != nil {
		return 0, err
	}
	return len(text), f.Close()
}

func writeGzip(w io.Writer, name, text string) error {
	zw := gzip.NewWriter(w)
	zw.Name = name
	if _, err := io.WriteString(zw, text); err != nil {
		return err
	}
	return zw.Close()
}

func writeReport(c *cli.Context, opts *pruneOptions, report *output.PruneReport) error {
	var f *output.Formatter
	if opts.report != "" {
		var err error
		if f, err = output.NewFormatter(opts.format, opts.report, false); err != nil {
			return err
		}
		defer f.Close()
	} else {
		colored := opts.config.Output.Color && isTerminal(c.App.ErrWriter)
		f = output.NewWriterFormatter(opts.format, c.App.ErrWriter, colored)
	}

	if err := f.Output(report); err != nil {
		return err
	}

	r := report.Result
	if f.Format() == output.FormatText && len(r.Stranded) > 0 && !opts.config.Prune.FixedPoint {
		f.Warning("%d stranded function(s) left after %d pass(es); rerun with --fixed-point to remove them",
			len(r.Stranded), r.Passes)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// exitError carries a non-default exit status to main.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) ExitCode() int { return e.code }
func (e *exitError) Unwrap() error { return e.err }
