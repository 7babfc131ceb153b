package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const schemaVersion = 1

//go:embed scripts/*.sql
var bootstrapFS embed.FS

// EnsureBootstrapped creates the schema unless the meta table already records the current version.
func EnsureBootstrapped(ctx context.Context, db *sql.DB, dialect Dialect) error {
	ctxBoot, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	q, args, err := dialect.builder().
		Select("COUNT(*)").From("artintx_meta").
		Where(sq.Eq{"version": schemaVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build meta query: %w", err)
	}

	var n int
	if err := db.QueryRowContext(ctxBoot, q, args...).Scan(&n); err == nil && n > 0 {
		slog.Debug("schema already bootstrapped", "version", schemaVersion)
		return nil
	}

	return runBootstrap(ctxBoot, db, dialect)
}

func runBootstrap(ctx context.Context, db *sql.DB, dialect Dialect) error {
	script := "scripts/" + dialect.Name + ".sql"
	sqlBytes, err := bootstrapFS.ReadFile(script)
	if err != nil {
		return fmt.Errorf("read %s: %w", script, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("exec bootstrap: %w", err)
	}

	q, args, err := dialect.builder().
		Insert("artintx_meta").Columns("version", "applied_at").
		Values(schemaVersion, time.Now().UTC()).
		ToSql()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("build meta insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap: %w", err)
	}
	slog.Info("schema bootstrapped", "dialect", dialect.Name, "version", schemaVersion)
	return nil
}
