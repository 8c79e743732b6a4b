package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/star/quadplan/internal/config"
	"github.com/star/quadplan/internal/ephem"
	"github.com/star/quadplan/internal/metrics"
	"github.com/star/quadplan/internal/planner"
	"github.com/star/quadplan/internal/report"
	"github.com/star/quadplan/internal/site"
	"github.com/star/quadplan/internal/visibility"
	"github.com/star/quadplan/internal/window"
)

const argsUsage = "<infile> <night1 YYYY-MM-DD> <night2 YYYY-MM-DD> <observatory>"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newCommand().Run(ctx, os.Args)
	stop()
	if err != nil {
		slog.Error("quadplan failed", "error", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "quadplan",
		Usage:     "List the observable quadrature times of periodic targets over a run of nights",
		ArgsUsage: argsUsage,
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				Sources: cli.EnvVars("QUADPLAN_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format: text or json",
				Sources: cli.EnvVars("QUADPLAN_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "provider",
				Usage:   "Solar position model: almanac or sunrise",
				Sources: cli.EnvVars("QUADPLAN_PROVIDER"),
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "Number of targets processed concurrently",
				Sources: cli.EnvVars("QUADPLAN_WORKERS"),
			},
			&cli.StringFlag{
				Name:    "sites",
				Usage:   "YAML file with additional observatories",
				Sources: cli.EnvVars("QUADPLAN_SITES_FILE"),
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write Prometheus metrics to this file after the run",
				Sources: cli.EnvVars("QUADPLAN_METRICS_FILE"),
			},
			&cli.BoolFlag{
				Name:    "collapse-instants",
				Usage:   "Keep only the last event when events of different targets share an instant",
				Sources: cli.EnvVars("QUADPLAN_COLLAPSE_INSTANTS"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn or error",
				Sources: cli.EnvVars("QUADPLAN_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format: json or text",
				Sources: cli.EnvVars("QUADPLAN_LOG_FORMAT"),
			},
		},
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 4 {
		return fmt.Errorf("expected 4 arguments %s, got %d", argsUsage, cmd.NArg())
	}
	args := cmd.Args()
	infile, night1, night2, observatory := args.Get(0), args.Get(1), args.Get(2), args.Get(3)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := cfg.Log.NewLogger(errWriter(cmd))
	slog.SetDefault(logger)

	registry, err := site.NewRegistry()
	if err != nil {
		return err
	}
	if cfg.Sites.File != "" {
		if err := registry.MergeFile(cfg.Sites.File); err != nil {
			return fmt.Errorf("loading sites: %w", err)
		}
	}
	obsSite, err := registry.Lookup(observatory)
	if err != nil {
		return err
	}

	win, err := window.Resolve(night1, night2)
	if err != nil {
		return err
	}

	targets, err := ephem.ReadFile(infile, logger)
	if err != nil {
		return err
	}

	provider, err := visibility.NewProvider(cfg.Planner.Provider)
	if err != nil {
		return err
	}

	logger.Info("planning",
		"observatory", obsSite.Key,
		"start_jd", win.Start,
		"end_jd", win.End,
		"targets", len(targets),
		"provider", cfg.Planner.Provider,
		"workers", cfg.Planner.Workers,
	)

	p := planner.New(
		visibility.NewFilter(provider, obsSite.Observer()),
		planner.Config{
			Workers:          cfg.Planner.Workers,
			CollapseInstants: cfg.Planner.CollapseInstants,
		},
		logger,
	)
	rep, err := p.Plan(ctx, win, targets)
	if err != nil {
		return err
	}

	if err := report.Write(outWriter(cmd), cfg.Output.Format, obsSite, rep); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if cfg.Output.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			return err
		}
		logger.Debug("metrics written", "path", cfg.Output.MetricsFile)
	}

	return nil
}

// loadConfig layers defaults, the optional config file and explicitly set flags.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if path := cmd.String("config"); path != "" {
		if err := config.Load(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if cmd.IsSet("format") {
		cfg.Output.Format = cmd.String("format")
	}
	if cmd.IsSet("provider") {
		cfg.Planner.Provider = cmd.String("provider")
	}
	if cmd.IsSet("workers") {
		cfg.Planner.Workers = int(cmd.Int("workers"))
	}
	if cmd.IsSet("sites") {
		cfg.Sites.File = cmd.String("sites")
	}
	if cmd.IsSet("metrics-file") {
		cfg.Output.MetricsFile = cmd.String("metrics-file")
	}
	if cmd.IsSet("collapse-instants") {
		cfg.Planner.CollapseInstants = cmd.Bool("collapse-instants")
	}
	if cmd.IsSet("log-level") {
		if err := cfg.Log.Level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
	}
	if cmd.IsSet("log-format") {
		cfg.Log.Format = cmd.String("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func outWriter(cmd *cli.Command) io.Writer {
	if cmd.Writer != nil {
		return cmd.Writer
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if cmd.ErrWriter != nil {
		return cmd.ErrWriter
	}
	return os.Stderr
}
