// Package main runs the creator fee claim processor, either as a
// one-shot pass or as an interval worker.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"wybe-engine/internal/config"
	"wybe-engine/internal/distribution"
	"wybe-engine/internal/storage/migrations"
	pgstore "wybe-engine/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.toml", "Path to TOML configuration file")
	once := flag.Bool("once", false, "Run a single pass and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if cfg.Storage != "postgres" {
		fmt.Fprintln(os.Stderr, "distribute requires postgres storage; in-memory records do not outlive the server process")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig.String())
		cancel()
	}()

	pool, err := pgstore.NewPool(ctx, cfg.Postgres.ConnString())
	if err != nil {
		logger.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Postgres.RunMigrations {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Error("run migrations", "error", err)
			os.Exit(1)
		}
	}

	processor := distribution.NewProcessor(pgstore.NewFeeDistributionStore(pool), logger, nil)

	if *once {
		res, err := processor.ProcessOnce(ctx)
		if err != nil {
			logger.Error("distribution pass failed", "error", err)
			os.Exit(1)
		}
		logger.Info("pass complete",
			"scanned", res.Scanned,
			"distributed", res.Distributed,
			"failed", res.Failed)
		return
	}

	logger.Info("starting distribution worker",
		"interval", cfg.Distribution.Interval.Duration.String())
	if err := processor.Run(ctx, cfg.Distribution.Interval.Duration); err != nil && err != context.Canceled {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}
