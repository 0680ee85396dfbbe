package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attaboy/shadowbook/internal/app"
	"github.com/attaboy/shadowbook/internal/arbitrage"
	"github.com/attaboy/shadowbook/internal/broker"
	"github.com/attaboy/shadowbook/internal/infra"
	"github.com/attaboy/shadowbook/internal/ledger"
	"github.com/attaboy/shadowbook/internal/market"
	"github.com/attaboy/shadowbook/internal/normalize"
	"github.com/attaboy/shadowbook/internal/provider"
	"github.com/attaboy/shadowbook/internal/repository"
	"github.com/attaboy/shadowbook/internal/risk"
	"github.com/attaboy/shadowbook/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("riskd failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("riskd connected to postgres")

	normalizer, err := normalize.Load(cfg.TeamMappingPath, cfg.FuzzyThreshold)
	if err != nil {
		return fmt.Errorf("load team mapping: %w", err)
	}

	ledgerRepo := repository.NewLedgerRepository()
	orderBookRepo := repository.NewOrderBookRepository()

	pnlLedger := ledger.New(ledgerRepo, pool)
	if err := pnlLedger.Load(ctx); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	orderBook := ledger.NewOrderBook(orderBookRepo, pool)

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	var primaryFeed provider.OddsFeed
	var secondaryFeed provider.OddsFeed
	if cfg.OddsAPIKey == "" {
		logger.Warn("ODDS_API_KEY not set, using stub odds feeds")
		primaryFeed = provider.NewStubFeed(normalizer)
		secondaryFeed = provider.NewArbitrageStubFeed(normalizer)
	} else {
		primaryFeed = provider.NewHTTPFeed(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, timeout, normalizer, logger)
		secondaryFeed = provider.NewOdds88Feed(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, timeout, normalizer, logger)
	}

	cache := market.New(primaryFeed, time.Duration(cfg.CacheTTLSeconds)*time.Second)

	riskCfg := risk.Config{
		MaxGlobalLiability: cfg.MaxGlobalLiability,
		MinHouseEdge:       cfg.MinHouseEdge,
		HedgeRounding:      cfg.HedgeRounding,
	}
	engine := risk.NewEngine(pnlLedger, riskCfg)

	b := broker.New(cache, engine, pnlLedger, orderBook)

	var scanner *arbitrage.Scanner
	if cfg.ArbitrageEnabled {
		scanner = arbitrage.New([]arbitrage.Feed{primaryFeed, secondaryFeed}, cfg.ArbitrageCapital, cfg.ArbitrageMinMarginPct/100, logger)
	}

	metrics := telemetry.New(prometheus.DefaultRegisterer)

	r := app.NewRouter(app.RouterDeps{
		Pool:               pool,
		Broker:             b,
		Scanner:            scanner,
		Metrics:            metrics,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("riskd starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("riskd stopped gracefully")
	return nil
}
