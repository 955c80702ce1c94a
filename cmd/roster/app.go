package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"roster/internal/config"
	"roster/internal/core"
	"roster/internal/infra/metrics"
	"roster/internal/infra/snapshot"
	"roster/pkg/domain"
)

var errUsage = errors.New("usage")

type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	registry       *prometheus.Registry

	snapshotPath string
	driver       string
	logLevel     string
	trace        bool
	showMetrics  bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr, registry: prometheus.NewRegistry()}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "roster",
		Short:         "Keep a list of people and their ages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
	flags := root.PersistentFlags()
	flags.StringVar(&a.snapshotPath, "snapshot", "", "snapshot location (file path, sqlite path or object key); overrides ROSTER_SNAPSHOT_PATH")
	flags.StringVar(&a.driver, "driver", "", "snapshot driver: file, memory, sqlite, postgres, s3 or blob-memory; overrides ROSTER_SNAPSHOT_DRIVER")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error; overrides ROSTER_LOG_LEVEL")
	flags.BoolVar(&a.trace, "trace", false, "write a JSON span per command to stderr")
	flags.BoolVar(&a.showMetrics, "metrics", false, "print collected metrics to stderr on exit")

	root.AddCommand(a.listCommand(), a.addCommand(), a.updateCommand(), a.deleteCommand(), a.statsCommand())
	return root
}

// loadConfig applies flag overrides on top of the environment.
func (a *app) loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	if a.driver != "" {
		cfg.Driver = a.driver
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.snapshotPath != "" {
		switch snapshot.Driver(cfg.Driver) {
		case snapshot.DriverSQLite:
			cfg.SQLitePath = a.snapshotPath
		case snapshot.DriverS3, snapshot.DriverBlobMemory:
			cfg.S3.Key = a.snapshotPath
		default:
			cfg.Path = a.snapshotPath
		}
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// open builds the service over the configured gateway. The returned
// function closes the gateway.
func (a *app) open(ctx context.Context) (*core.Service, func(), error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg, a.stderr)
	gw, err := snapshot.Open(ctx, cfg.SnapshotOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("open %s snapshot: %w", cfg.Driver, err)
	}
	closeGateway := func() {
		if err := gw.Close(); err != nil {
			logger.Warn("close snapshot gateway", "driver", gw.Driver(), "error", err)
		}
	}

	opts := []core.ServiceOption{
		core.WithLogger(logger),
		core.WithAuditRecorder(core.NewLogAuditRecorder(logger.With("component", "audit"))),
		core.WithMetricsRecorder(metrics.NewPrometheusRecorder(a.registry)),
		core.WithSubscriber(metrics.NewPopulationGauges(a.registry)),
	}
	if a.trace {
		opts = append(opts, core.WithTracer(core.NewJSONTracer(a.stderr)))
	}
	if cfg.SeedDefaults {
		opts = append(opts, core.WithSeed(core.DefaultSeed()...))
	}
	svc, err := core.Open(ctx, gw, opts...)
	if err != nil {
		closeGateway()
		return nil, nil, err
	}
	return svc, closeGateway, nil
}

// withService opens the service for the duration of fn.
func (a *app) withService(cmd *cobra.Command, fn func(*core.Service) error) error {
	svc, closeFn, err := a.open(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(svc)
}

// personAt resolves a 1-based position argument.
func personAt(svc *core.Service, arg string) (*domain.Person, error) {
	pos, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: position %q is not a number", errUsage, arg)
	}
	p, ok := svc.Store().At(pos - 1)
	if !ok {
		return nil, fmt.Errorf("%w: no person at position %d (roster has %d)", errUsage, pos, svc.Store().Len())
	}
	return p, nil
}
