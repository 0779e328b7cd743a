package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowd-io/flowd/buildinfo"
	"github.com/flowd-io/flowd/config"
	"github.com/flowd-io/flowd/engine"
	"github.com/flowd-io/flowd/executor"
	"github.com/flowd-io/flowd/logging"
	"github.com/flowd-io/flowd/metrics"
	"github.com/flowd-io/flowd/server"
	"github.com/flowd-io/flowd/store"
)

type Args struct {
	ConfigPath string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args := parseArgs()

	cfg := config.Default()
	if args.ConfigPath != "" {
		loaded, err := config.Load(args.ConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	logger.Info("starting flowd", "build", buildinfo.Get().String())

	m := metrics.New(cfg.Monitoring.MetricsPrefix)
	eng := engine.New(
		store.NewCatalog(),
		store.NewExecutionStore(),
		store.NewStats(),
		executor.NewLocal(),
		engine.WithLogger(logger),
		engine.WithMetrics(m),
		engine.WithPace(cfg.Engine.PaceDelay),
		engine.WithQueueSize(cfg.Engine.QueueSize),
	)
	if err := eng.Seed(); err != nil {
		return fmt.Errorf("failed to seed workflow catalog: %w", err)
	}

	srv, err := server.New(cfg, eng, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if cfg.Monitoring.VictoriaMetricsURL != "" {
		pusher := metrics.NewPushClient(cfg.Monitoring.VictoriaMetricsURL, cfg.Monitoring.JobName)
		metrics.StartPusher(ctx, pusher, m, cfg.Monitoring.PushInterval, logger)
	}

	engineDone := make(chan error, 1)
	go func() {
		engineDone <- eng.Run(ctx)
	}()

	if err := srv.Run(ctx); err != nil {
		return err
	}

	// Wait for in-flight executions to wind down.
	return <-engineDone
}

func parseArgs() Args {
	configPath := flag.String("config", "", "Path to config file")
	configPathShort := flag.String("c", "", "Path to config file (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nflowd - Workflow Execution Engine\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --config /etc/flowd/config.yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -c config.yaml\n", os.Args[0])
	}

	flag.Parse()

	path := *configPath
	if path == "" && *configPathShort != "" {
		path = *configPathShort
	}

	return Args{
		ConfigPath: path,
	}
}
