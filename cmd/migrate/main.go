package main

import (
	"context"
	"time"

	mongoMigration "bouncely/internal/migrations/mongo"
	postgresMigration "bouncely/internal/migrations/postgres"
	"bouncely/pkg/config"
)

const JobName = "migrate"

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetStores()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting migration job", "store", cfg.ReservationStore)
	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log); err != nil {
		cfg.Log.Fatal("Mongo migration failed", "error", err)
	}
	if cfg.ReservationStore == config.StorePostgres {
		if err := postgresMigration.RunMigration(ctx, cfg.Client.Postgres, cfg.Log); err != nil {
			cfg.Log.Fatal("Postgres migration failed", "error", err)
		}
	}
	cfg.Log.Info("Migration completed")
}
