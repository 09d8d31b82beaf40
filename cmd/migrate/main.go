package main

import (
	"context"

	"vendormarket/internal/config"
	"vendormarket/internal/db"
	"vendormarket/internal/logging"
	"vendormarket/internal/migrate"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.MustNew("migrate", cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	logger.Info("migrations applied")
}
