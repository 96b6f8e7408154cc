package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateVideoRoomsTable, downCreateVideoRoomsTable)
}

func upCreateVideoRoomsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE video_rooms (
	  id CHAR(36) NOT NULL PRIMARY KEY,
	  room_name VARCHAR(128) NOT NULL UNIQUE,
	  classroom_id BIGINT UNSIGNED NOT NULL,
	  host_id BIGINT UNSIGNED NOT NULL,
	  session_name VARCHAR(200) NOT NULL,
	  max_participants INT UNSIGNED NOT NULL DEFAULT 0,
	  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	  INDEX idx_video_rooms_classroom (classroom_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`
	_, err := tx.ExecContext(ctx, query)
	return err
}

func downCreateVideoRoomsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS video_rooms;`)
	return err
}
