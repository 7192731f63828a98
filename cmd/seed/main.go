package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/wanderstay/bookings/internal/config"
	"github.com/wanderstay/bookings/internal/db"
	"github.com/wanderstay/bookings/internal/observability"
	"github.com/wanderstay/bookings/internal/seed"
)

func main() {
	negative := flag.Bool("negative", false, "remove the negative-path fixture records after seeding")
	flag.Parse()

	cfg, err := config.Load()

	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	loader := seed.NewLoader(cfg.SeedDir, log, pool)

	if err := loader.Run(ctx, *negative || cfg.NegativeSeed); err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}
