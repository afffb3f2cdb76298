package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nikh123/RealEstateHub/internal/config"
	"github.com/nikh123/RealEstateHub/internal/db"
	"github.com/nikh123/RealEstateHub/internal/logging"
	"github.com/nikh123/RealEstateHub/internal/repository"
	"github.com/nikh123/RealEstateHub/internal/seed"
	"github.com/nikh123/RealEstateHub/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: os.Stderr})
	if cfg.StoreDriver != config.StoreMySQL {
		return fmt.Errorf("seed needs STORE_DRIVER=mysql; the memory store is seeded by the api on startup")
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := repository.Migrate(conn); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	store := repository.NewGormStore(conn)

	ok, err := seed.ShouldSeed(ctx, store.Buyers, strings.EqualFold(os.Getenv("FORCE_SEED"), "true"))
	if err != nil {
		return err
	}
	if !ok {
		log.Info("buyers already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	policy := service.DefaultPolicy()
	_, err = seed.Demo(ctx, seed.Services{
		Sellers:    service.NewSellerService(store, policy, log),
		Buyers:     service.NewBuyerService(store, policy, log),
		Properties: service.NewPropertyService(store, policy, log),
	}, log)
	return err
}
