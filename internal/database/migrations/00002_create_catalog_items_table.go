package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCatalogItemsTable, downCreateCatalogItemsTable)
}

// catalog_items stores courses, classrooms and teachers in one table.
// The instructor is denormalized; there is no foreign key to users.
func upCreateCatalogItemsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE catalog_items (
	  id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	  kind ENUM('course','classroom','teacher') NOT NULL,
	  title VARCHAR(200) NOT NULL,
	  description TEXT NOT NULL,
	  instructor_name VARCHAR(120) NOT NULL DEFAULT '',
	  instructor_avatar VARCHAR(255) NOT NULL DEFAULT '',
	  level VARCHAR(32) NOT NULL,
	  category VARCHAR(64) NOT NULL DEFAULT '',
	  status VARCHAR(16) NOT NULL,
	  price DECIMAL(10,2) NOT NULL DEFAULT 0,
	  rating DECIMAL(3,2) NOT NULL DEFAULT 0,
	  students_count INT UNSIGNED NOT NULL DEFAULT 0,
	  enrolled_students INT UNSIGNED NOT NULL DEFAULT 0,
	  max_students INT UNSIGNED NOT NULL DEFAULT 0,
	  starts_at DATETIME NULL,
	  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	  INDEX idx_catalog_kind (kind, id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`
	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateCatalogItemsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS catalog_items;`)
	return err
}
