// Command bondmon serves bond portfolio monitoring: cached bond record
// fetches from the upstream data source, an error ledger, and an
// aggregated health view over all subsystem components.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/bondradar/bondmon/internal/config"
	"github.com/bondradar/bondmon/internal/server"
	"github.com/bondradar/bondmon/pkg/cache"
	"github.com/bondradar/bondmon/pkg/errlog"
	"github.com/bondradar/bondmon/pkg/gateway"
	"github.com/bondradar/bondmon/pkg/health"
	"github.com/bondradar/bondmon/pkg/logging"
	"github.com/bondradar/bondmon/pkg/probe"
	"github.com/bondradar/bondmon/pkg/remote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bondmon: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})
	logger := logging.NewLogger("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Core subsystem parts.
	store := cache.New[[]byte]("bonds", cfg.Cache.Capacity)
	ledger := errlog.New(cfg.Ledger.MaxRecords)

	remoteClient, err := remote.New(remote.Config{
		BaseURL:          cfg.Remote.BaseURL,
		Timeout:          cfg.Remote.Timeout,
		UserAgent:        cfg.Remote.UserAgent,
		BreakerThreshold: cfg.Remote.BreakerThreshold,
		BreakerCooldown:  cfg.Remote.BreakerCooldown,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create remote client")
	}

	gw, err := gateway.New(remoteClient.Fetch, store, ledger, gateway.Config{
		TTL:            cfg.Gateway.TTL,
		MaxConcurrency: cfg.Gateway.MaxConcurrency,
		FetchTimeout:   cfg.Gateway.FetchTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create gateway")
	}

	// Health registry with the built-in checks. Database and redis
	// checks only run when their endpoints are configured.
	registry := health.NewRegistry(health.Config{
		CheckTimeout:    cfg.Health.CheckTimeout,
		DefaultInterval: cfg.Health.CheckInterval,
		Version:         cfg.App.Version,
	})
	registry.Register("cache", health.CacheCheck(store))
	registry.Register("errors", health.ErrorsCheck(ledger, cfg.Ledger.CriticalWindow))
	registry.Register("external_api", health.GatewayCheck(gw.Reachability))
	registry.Register("memory", health.MemoryCheck(probe.ProcessMemory()))

	if cfg.Postgres.URL != "" {
		db, err := sqlx.Open("postgres", cfg.Postgres.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to open database handle")
		}
		defer db.Close()
		registry.Register("database", health.DatabaseCheck(probe.Database(db)))
	}

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		registry.Register("redis", probe.Redis(redisClient))
	}

	// Background maintenance.
	store.StartSweeper(ctx, cfg.Cache.SweepInterval)
	registry.StartPeriodic(ctx, cfg.Health.RunInterval)

	srv := server.New(store, ledger, gw, registry, cfg.Ledger.CriticalWindow)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Str("version", cfg.App.Version).
			Str("remote", cfg.Remote.BaseURL).
			Msg("Starting bondmon server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown did not finish cleanly")
	}
}
