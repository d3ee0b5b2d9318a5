package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/kotobadev/jlpt-backend/internal/config"
)

// migrationsDir is resolved relative to the working directory of the server
// process. Deployments run the binary from the repository root.
const migrationsDir = "migrations"

// Migrate applies all pending goose migrations. goose needs *sql.DB, so it
// gets its own short-lived connection instead of the pgx pool.
func Migrate(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) error {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(migrationsDir))
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	log.Info("migrations applied", slog.Int("count", len(results)))
	return nil
}
