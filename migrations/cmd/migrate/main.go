package main

import (
	"context"
	"flag"
	"log"

	"nutripae-rh/migrations"
	"nutripae-rh/pkg/config"
	"nutripae-rh/pkg/database/postgresql"
	"nutripae-rh/pkg/logger"
)

func main() {
	down := flag.Bool("down", false, "Roll back the latest migration")
	status := flag.Bool("status", false, "Print the migration status")
	flag.Parse()

	cfg := config.New()
	appLogger := logger.NewLogger(cfg.Log).Named("migrate")
	defer appLogger.Sync()

	ctx := context.Background()
	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres, appLogger)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer dbPool.Close()

	switch {
	case *status:
		err = migrations.Status(ctx, dbPool)
	case *down:
		err = migrations.Down(ctx, dbPool)
	default:
		err = migrations.Up(ctx, dbPool, appLogger)
	}
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
}
