package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/canpolat/domainscout/internal/cache"
	"github.com/canpolat/domainscout/internal/checker"
	"github.com/canpolat/domainscout/internal/config"
	"github.com/canpolat/domainscout/internal/handlers"
	"github.com/canpolat/domainscout/internal/probe"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "path to config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var store cache.Store
	var counter cache.Counter
	if cfg.RedisURL != "" {
		client, connErr := cache.Connect(ctx, cfg.RedisURL)
		if connErr != nil {
			log.Error("connect redis", "error", connErr)
			os.Exit(1)
		}
		redisStore := cache.NewRedis(client)
		store, counter = redisStore, redisStore
		log.Info("using redis cache", "url", cfg.RedisURL)
	} else {
		memory := cache.NewMemory()
		store, counter = memory, memory
		log.Info("using in-memory cache")
	}

	engine := checker.New(
		probe.NewWhoisProbe(cfg.WhoisTimeout),
		probe.NewDNSProbe(cfg.DNSServer),
		store,
		checker.Config{
			WhoisTimeout:     cfg.WhoisTimeout,
			DNSTimeout:       cfg.DNSTimeout,
			CacheTTL:         cfg.CacheTTL,
			MaxBatchItems:    cfg.MaxBatchItems,
			BatchConcurrency: cfg.BatchConcurrency,
		},
		log,
	)

	handler := handlers.NewHandler(engine, handlers.Limits{
		CheckPerMinute: cfg.CheckPerMinute,
		BulkPerMinute:  cfg.BulkPerMinute,
	})

	var limiter *handlers.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = handlers.NewRateLimiter(counter)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handlers.NewRouter(handler, limiter, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		if shutdownErr := server.Shutdown(drainCtx); shutdownErr != nil {
			log.Error("shutdown", "error", shutdownErr)
		}
	}()

	log.Info("server starting", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server", "error", err)
		os.Exit(1)
	}
}
