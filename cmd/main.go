package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/decades/internal/adapters/repository"
	app "github.com/okian/decades/internal/app"
	"github.com/okian/decades/internal/config"
	"github.com/okian/decades/pkg/logger"
	"github.com/okian/decades/pkg/metrics"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev" //nolint:gochecknoglobals // build-time stamp

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// flags holds the command-line values. Empty values leave the configured
// setting untouched.
type flags struct {
	configFile string
	input      string
	metric     string
	chart      string
	out        string
	store      string
	listRuns   int
	showRun    string
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("decades", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configFile, "config", "", "YAML config file (overrides "+config.EnvConfigFile+")")
	fs.StringVar(&f.input, "input", "", "team-season CSV file")
	fs.StringVar(&f.metric, "metric", "", "metric preset: stolen_bases or strikeouts")
	fs.StringVar(&f.chart, "chart", "", "chart kind: line, bar, annotated_bar or none")
	fs.StringVar(&f.out, "out", "", "chart output path; the extension picks the format")
	fs.StringVar(&f.store, "store", "", "SQLite file runs are saved to and read from")
	fs.IntVar(&f.listRuns, "list-runs", 0, "print the N newest stored runs and exit")
	fs.StringVar(&f.showRun, "show-run", "", "print the decade table of a stored run and exit")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 {
		return f, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

// overrides maps set flags onto config keys.
func (f flags) overrides() map[string]any {
	values := map[string]any{}
	if f.input != "" {
		values["input"] = f.input
	}
	if f.metric != "" {
		values["metric"] = f.metric
	}
	if f.chart != "" {
		values["chart_kind"] = f.chart
	}
	if f.out != "" {
		values["chart_path"] = f.out
	}
	if f.store != "" {
		values["store_path"] = f.store
	}
	return values
}

// run executes one analysis and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "decades: %v\n", err)
		return 2
	}
	if f.version {
		fmt.Fprintf(stdout, "decades %s\n", version)
		return 0
	}

	// Load configuration (defaults -> optional file -> env -> flags)
	cfg, err := config.Load(ctx, config.WithFile(f.configFile), config.WithOverrides(f.overrides()))
	if err != nil {
		fmt.Fprintf(stderr, "decades: %v\n", err)
		return 1
	}

	// Initialize logging
	if err := logger.Init(logger.WithOutput(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		fmt.Fprintf(stderr, "decades: failed to initialize logging: %v\n", err)
		return 1
	}
	log := logger.Named("decades")

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if f.listRuns > 0 || f.showRun != "" {
		return inspect(ctx, cfg.StorePath, f, stdout, stderr)
	}

	opts := []app.Option{
		app.WithLogger(log),
		app.WithMetrics(metrics.Default()),
		app.WithOutput(stdout),
	}
	if cfg.StorePath != "" {
		store, err := repository.Open(ctx, cfg.StorePath)
		if err != nil {
			fmt.Fprintf(stderr, "decades: %v\n", err)
			return 1
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Error(ctx, "closing store failed", logger.Error(err))
			}
		}()
		opts = append(opts, app.WithStore(store))
	}

	pipeline, err := app.New(cfg, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "decades: %v\n", err)
		return 1
	}
	if _, err := pipeline.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "decades: %v\n", err)
		return 1
	}
	return 0
}

// inspect serves -list-runs and -show-run from the configured store.
func inspect(ctx context.Context, storePath string, f flags, stdout, stderr io.Writer) int {
	if storePath == "" {
		fmt.Fprintln(stderr, "decades: reading stored runs needs -store or store_path")
		return 1
	}
	store, err := repository.Open(ctx, storePath)
	if err != nil {
		fmt.Fprintf(stderr, "decades: %v\n", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	if f.showRun != "" {
		err = app.ShowRun(ctx, store, f.showRun, stdout)
	} else {
		err = app.ListRuns(ctx, store, f.listRuns, stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "decades: %v\n", err)
		return 1
	}
	return 0
}
