package repository

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// マイグレーションコマンド
const (
	MigrateUp     = "up"
	MigrateReset  = "reset"
	MigrateStatus = "status"
)

// Migrate は埋め込みマイグレーションを goose で適用する。
// reset は全マイグレーションを巻き戻した後に再適用する。
func Migrate(ctx context.Context, pool *pgxpool.Pool, command string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	switch command {
	case MigrateUp, "":
		if err := goose.UpContext(ctx, db, "migrations"); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	case MigrateReset:
		if err := goose.ResetContext(ctx, db, "migrations"); err != nil {
			return fmt.Errorf("failed to reset migrations: %w", err)
		}
		if err := goose.UpContext(ctx, db, "migrations"); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	case MigrateStatus:
		if err := goose.StatusContext(ctx, db, "migrations"); err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
	default:
		return fmt.Errorf("unknown migrate command: %q", command)
	}
	return nil
}
