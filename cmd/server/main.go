// Package main runs the pricing engine API server: token launch, trade
// execution, fee distribution, and the WebSocket trade feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"wybe-engine/internal/cache"
	cachemem "wybe-engine/internal/cache/memory"
	cacheredis "wybe-engine/internal/cache/redis"
	"wybe-engine/internal/config"
	"wybe-engine/internal/distribution"
	"wybe-engine/internal/launch"
	"wybe-engine/internal/server"
	"wybe-engine/internal/server/handler"
	"wybe-engine/internal/server/ws"
	"wybe-engine/internal/storage"
	chstore "wybe-engine/internal/storage/clickhouse"
	"wybe-engine/internal/storage/memory"
	"wybe-engine/internal/storage/migrations"
	pgstore "wybe-engine/internal/storage/postgres"
	"wybe-engine/internal/trading"
)

// allStores holds the storage implementations selected by configuration.
type allStores struct {
	tokens storage.TokenStore
	txs    storage.TransactionStore
	fees   storage.FeeDistributionStore
	trades storage.TradeStore
	prices storage.PricePointStore
}

func main() {
	configPath := flag.String("config", "config.toml", "Path to TOML configuration file")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage regardless of configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *useMemory {
		cfg.Storage = "memory"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("create stores", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	locker, lockCleanup, err := createLocker(ctx, cfg)
	if err != nil {
		logger.Error("create locker", "error", err)
		os.Exit(1)
	}
	defer lockCleanup()

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	launchSvc := launch.NewService(stores.tokens, logger, nil)
	tradeSvc := trading.NewService(trading.ServiceOptions{
		Tokens:  stores.tokens,
		Txs:     stores.txs,
		Trades:  stores.trades,
		Prices:  stores.prices,
		Locks:   locker,
		Feed:    hub,
		LockTTL: cfg.Trading.LockTTL.Duration,
		Logger:  logger,
	})
	processor := distribution.NewProcessor(stores.fees, logger, nil)

	go func() {
		if err := processor.Run(ctx, cfg.Distribution.Interval.Duration); err != nil && err != context.Canceled {
			logger.Error("distribution worker stopped", "error", err)
		}
	}()

	srv := server.NewServer(server.Config{
		Port:        cfg.Server.Port,
		CORSOrigins: cfg.Server.CORSOrigins,
	}, server.Handlers{
		Health:        handler.NewHealthHandler(logger),
		Tokens:        handler.NewTokenHandler(launchSvc, logger),
		Trades:        handler.NewTradeHandler(tradeSvc, stores.fees, logger),
		Distributions: handler.NewDistributionHandler(processor, logger),
	}, hub, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig.String())
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
			os.Exit(1)
		}
	}()

	if err := srv.Start(); err != nil {
		logger.Error("server", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

// createStores builds the configured storage backends. The returned
// cleanup closes any open connections.
func createStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*allStores, func(), error) {
	if strings.ToLower(cfg.Storage) == "memory" {
		tokens := memory.NewTokenStore()
		txs := memory.NewTransactionStore()
		fees := memory.NewFeeDistributionStore()
		stores := &allStores{
			tokens: tokens,
			txs:    txs,
			fees:   fees,
			trades: memory.NewTradeStore(txs, fees, tokens),
			prices: memory.NewPricePointStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.Postgres.ConnString())
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if cfg.Postgres.RunMigrations {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
		}
	}

	stores := &allStores{
		tokens: pgstore.NewTokenStore(pool),
		txs:    pgstore.NewTransactionStore(pool),
		fees:   pgstore.NewFeeDistributionStore(pool),
		trades: pgstore.NewTradeStore(pool),
	}
	cleanup := func() { pool.Close() }

	if cfg.Clickhouse.Enabled {
		chConn, err := chstore.NewConn(ctx, cfg.Clickhouse.DSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		if err := migrations.RunClickhouseMigrations(ctx, chConn); err != nil {
			chConn.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		stores.prices = chstore.NewPricePointStore(chConn)
		cleanup = func() {
			chConn.Close()
			pool.Close()
		}
	} else {
		logger.Info("clickhouse disabled, keeping price history in memory")
		stores.prices = memory.NewPricePointStore()
	}

	return stores, cleanup, nil
}

// createLocker builds the per-token trade lock backend.
func createLocker(ctx context.Context, cfg *config.Config) (cache.Locker, func(), error) {
	if !cfg.Redis.Enabled {
		return cachemem.NewLocker(), func() {}, nil
	}

	client, err := cacheredis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	return cacheredis.NewLocker(client), func() { client.Close() }, nil
}
