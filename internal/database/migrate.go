package database

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/pressly/goose/v3"

	_ "github.com/iliyamo/nihongo-sekai/internal/database/migrations"
)

// Migrate applies every pending Go migration registered by the
// migrations package.  dir must be the directory holding the migration
// sources, as goose checks it for unregistered files.
func Migrate(ctx context.Context, db *sql.DB, dir string) error {
	if err := goose.SetDialect("mysql"); err != nil {
		return err
	}
	slog.InfoContext(ctx, "running database migrations", slog.String("dir", dir))
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return err
	}
	v, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "database migrated", slog.Int64("version", v))
	return nil
}
