package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"resumelink/internal/shared/config"
	"resumelink/internal/shared/storage/db"
	"resumelink/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Configure(telemetry.Options{Level: cfg.LogLevel})
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		sqlDB.Close()
		os.Exit(1)
	}
	telemetry.Info("migrate.complete", nil)
}
