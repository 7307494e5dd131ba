package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/terracaughta/geoguess/internal/config"
	"github.com/terracaughta/geoguess/internal/countries"
	"github.com/terracaughta/geoguess/internal/game"
	"github.com/terracaughta/geoguess/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Upstream collaborators ---
	client := countries.NewClient(cfg.CountriesAPIURL, cfg.UpstreamTimeout)
	worldBank := countries.NewWorldBank(cfg.WorldBankAPIURL, cfg.UpstreamTimeout)
	catalog := countries.NewCatalog(client, cfg.CatalogTTL)

	// --- Game engine ---
	evaluator, err := game.NewEvaluator()
	if err != nil {
		return fmt.Errorf("building guess evaluator: %w", err)
	}

	deps := server.Deps{
		Catalog:   catalog,
		Countries: client,
		Selector:  game.NewSelector(worldBank, cfg.SelectMaxAttempts),
		Resolver:  game.NewClueResolver(client),
		Evaluator: evaluator,
	}

	// Warm the catalog so the first round doesn't pay the full directory
	// download. Failure is non-fatal; the first round will retry.
	if pool, err := catalog.Pool(ctx); err != nil {
		logger.Warn("catalog warm-up failed", "error", err)
	} else {
		logger.Info("catalog warmed", "countries", len(pool))
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, deps, cfg.SPADir)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
