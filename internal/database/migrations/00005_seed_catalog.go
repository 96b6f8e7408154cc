package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/iliyamo/nihongo-sekai/internal/seed"
)

func init() {
	goose.AddMigrationContext(upSeedCatalog, downSeedCatalog)
}

func upSeedCatalog(ctx context.Context, tx *sql.Tx) error {
	for _, u := range seed.Users() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, name, email, role, avatar) VALUES (?, ?, ?, ?, ?)`,
			u.ID, u.Name, u.Email, u.Role, u.Avatar); err != nil {
			return err
		}
	}

	const q = `INSERT INTO catalog_items
	  (id, kind, title, description, instructor_name, instructor_avatar, level, category, status,
	   price, rating, students_count, enrolled_students, max_students, starts_at, created_at)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, it := range seed.All() {
		if _, err := tx.ExecContext(ctx, q,
			it.ID, it.Kind, it.Title, it.Description, it.Instructor.Name, it.Instructor.Avatar,
			it.Level, it.Category, it.Status, it.Price, it.Rating, it.StudentsCount,
			it.EnrolledStudents, it.MaxStudents, it.StartsAt, it.CreatedAt); err != nil {
			return err
		}
	}
	return nil
}

func downSeedCatalog(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_items WHERE id <= 1000`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM users WHERE email LIKE '%@nihongo-sekai.test'`)
	return err
}
