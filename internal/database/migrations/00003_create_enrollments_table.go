package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateEnrollmentsTable, downCreateEnrollmentsTable)
}

func upCreateEnrollmentsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE enrollments (
	  id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	  item_id BIGINT UNSIGNED NOT NULL,
	  user_id BIGINT UNSIGNED NOT NULL,
	  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	  UNIQUE KEY uq_enrollment (item_id, user_id),
	  CONSTRAINT fk_enrollment_item FOREIGN KEY (item_id) REFERENCES catalog_items(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`
	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateEnrollmentsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS enrollments;`)
	return err
}
