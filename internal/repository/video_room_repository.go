package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/nihongo-sekai/internal/model"
)

// VideoRoomRepo persists provisioned call rooms.
type VideoRoomRepo struct {
	db *sqlx.DB
}

func NewVideoRoomRepo(db *sqlx.DB) *VideoRoomRepo { return &VideoRoomRepo{db: db} }

// Create inserts room.  CreatedAt is taken from the struct so the caller
// controls the clock.
func (r *VideoRoomRepo) Create(ctx context.Context, room model.VideoRoom) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO video_rooms (id, room_name, classroom_id, host_id, session_name, max_participants, created_at)
		 VALUES (:id, :room_name, :classroom_id, :host_id, :session_name, :max_participants, :created_at)`, room)
	if isDuplicate(err) {
		return ErrConflict
	}
	return err
}

// GetByID returns the room or ErrRoomNotFound.
func (r *VideoRoomRepo) GetByID(ctx context.Context, id string) (model.VideoRoom, error) {
	var room model.VideoRoom
	err := r.db.GetContext(ctx, &room,
		`SELECT id, room_name, classroom_id, host_id, session_name, max_participants, created_at
		 FROM video_rooms WHERE id = ? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.VideoRoom{}, ErrRoomNotFound
	}
	return room, err
}

// Has reports whether a room with id exists.  Lookup errors count as
// absent.
func (r *VideoRoomRepo) Has(ctx context.Context, id string) bool {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM video_rooms WHERE id = ?`, id); err != nil {
		return false
	}
	return n > 0
}
