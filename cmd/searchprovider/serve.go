package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/app"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/bus"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/infrastructure/server"
)

type serveOptions struct {
	busType     string
	mode        string
	appID       string
	contentDir  string
	metrics     bool
	metricsAddr string
	logLevel    string
	dev         bool
}

func newServeCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Register the search provider on the bus and serve requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&opts.busType, "bus", "", "Bus to register on (session or system)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "Export mode (subtree or single)")
	cmd.Flags().StringVar(&opts.appID, "app-id", "", "App served in single mode")
	cmd.Flags().StringVar(&opts.contentDir, "content-dir", "", "Directory holding app content")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Serve diagnostics over HTTP")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Diagnostics listen address")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "Human readable development logging")
	return cmd
}

// apply overrides cfg with the flags set on cmd.
func (o serveOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("bus") {
		cfg.Bus.Type = o.busType
	}
	if flags.Changed("mode") {
		cfg.Bus.Mode = o.mode
	}
	if flags.Changed("app-id") {
		cfg.Bus.SingleAppID = o.appID
	}
	if flags.Changed("content-dir") {
		cfg.Content.Dir = o.contentDir
	}
	if flags.Changed("metrics") {
		cfg.Metrics.Enabled = o.metrics
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = o.metricsAddr
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("dev") {
		cfg.Logging.Development = o.dev
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development)
	defer func() { _ = logger.Sync() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetricsWith(registry)

	conn, err := bus.Connect(cfg.Bus.Type)
	if err != nil {
		return fmt.Errorf("connect to %s bus: %w", cfg.Bus.Type, err)
	}
	defer conn.Close()

	a, err := app.New(ctx, cfg, conn, app.WithLogger(logger.Logger), app.WithMetrics(metrics))
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	defer a.Stop()

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Enabled {
		srv := server.NewServer(cfg.Metrics, a.Router(), a.Services()).
			WithLogger(logger.Logger).
			WithMetrics(metrics, registry).
			WithBreakers(a.Breakers())
		g.Go(func() error {
			return srv.Run(ctx)
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down", zap.String("name", cfg.Bus.Name))
		return nil
	})
	return g.Wait()
}
