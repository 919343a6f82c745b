// Package migrations holds the SQL schema of the service and applies it with goose.
package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed *.sql
var embedMigrations embed.FS

func setup() error {
	goose.SetBaseFS(embedMigrations)
	return goose.SetDialect("postgres")
}

// Up applies every pending migration through a *sql.DB borrowed from the pgx pool.
func Up(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if err := setup(); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	currentVersion, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		logger.Error("migration failed", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	logger.Info("migrations applied",
		zap.Int64("from_version", currentVersion),
		zap.Int64("to_version", finalVersion),
	)
	return nil
}

// Down rolls back the latest migration.
func Down(ctx context.Context, pool *pgxpool.Pool) error {
	if err := setup(); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()
	return goose.DownContext(ctx, sqlDB, ".")
}

func Status(ctx context.Context, pool *pgxpool.Pool) error {
	if err := setup(); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()
	return goose.StatusContext(ctx, sqlDB, ".")
}
