package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/nihongo-sekai/internal/model"
)

// itemRow mirrors one row of catalog_items.
type itemRow struct {
	ID               uint64       `db:"id"`
	Kind             string       `db:"kind"`
	Title            string       `db:"title"`
	Description      string       `db:"description"`
	InstructorName   string       `db:"instructor_name"`
	InstructorAvatar string       `db:"instructor_avatar"`
	Level            string       `db:"level"`
	Category         string       `db:"category"`
	Status           string       `db:"status"`
	Price            float64      `db:"price"`
	Rating           float64      `db:"rating"`
	StudentsCount    int          `db:"students_count"`
	EnrolledStudents int          `db:"enrolled_students"`
	MaxStudents      int          `db:"max_students"`
	StartsAt         sql.NullTime `db:"starts_at"`
	CreatedAt        time.Time    `db:"created_at"`
}

func (r itemRow) item() model.Item {
	it := model.Item{
		ID:               r.ID,
		Kind:             model.Kind(r.Kind),
		Title:            r.Title,
		Description:      r.Description,
		Instructor:       model.Instructor{Name: r.InstructorName, Avatar: r.InstructorAvatar},
		Level:            model.Level(r.Level),
		Category:         r.Category,
		Status:           model.Status(r.Status),
		Price:            r.Price,
		Rating:           r.Rating,
		StudentsCount:    r.StudentsCount,
		EnrolledStudents: r.EnrolledStudents,
		MaxStudents:      r.MaxStudents,
		CreatedAt:        r.CreatedAt,
	}
	if r.StartsAt.Valid {
		t := r.StartsAt.Time
		it.StartsAt = &t
	}
	return it
}

const itemColumns = `id, kind, title, description, instructor_name, instructor_avatar, level, category, status, ` +
	`price, rating, students_count, enrolled_students, max_students, starts_at, created_at`

// CatalogRepo reads courses, classrooms and teachers from catalog_items.
type CatalogRepo struct {
	db *sqlx.DB
}

func NewCatalogRepo(db *sqlx.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// Load returns every item of kind in insertion order.  It satisfies
// listing.Loader; filtering and sorting happen in memory.
func (r *CatalogRepo) Load(ctx context.Context, kind model.Kind) ([]model.Item, error) {
	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT `+itemColumns+` FROM catalog_items WHERE kind = ? ORDER BY id`, kind); err != nil {
		return nil, err
	}
	items := make([]model.Item, len(rows))
	for i, row := range rows {
		items[i] = row.item()
	}
	return items, nil
}

// GetByID returns one item of the given kind or ErrItemNotFound.
func (r *CatalogRepo) GetByID(ctx context.Context, kind model.Kind, id uint64) (model.Item, error) {
	var row itemRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+itemColumns+` FROM catalog_items WHERE id = ? AND kind = ? LIMIT 1`, id, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, ErrItemNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return row.item(), nil
}

// Enroll takes a seat in a classroom for userID.  The classroom row is
// locked for the duration of the transaction so concurrent enrollments
// cannot oversell; the status flips to full when the last seat is taken.
// The updated classroom is returned.
func (r *CatalogRepo) Enroll(ctx context.Context, classroomID, userID uint64) (model.Item, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Item{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var row itemRow
	err = tx.GetContext(ctx, &row,
		`SELECT `+itemColumns+` FROM catalog_items WHERE id = ? AND kind = 'classroom' FOR UPDATE`, classroomID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, ErrItemNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	it := row.item()
	if it.IsFull() || it.Status == model.StatusFull {
		return model.Item{}, ErrClassroomFull
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO enrollments (item_id, user_id) VALUES (?, ?)`, classroomID, userID); err != nil {
		if isDuplicate(err) {
			return model.Item{}, ErrAlreadyEnrolled
		}
		return model.Item{}, err
	}

	it.EnrolledStudents++
	it.StudentsCount++
	if it.IsFull() {
		it.Status = model.StatusFull
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE catalog_items SET enrolled_students = ?, students_count = ?, status = ? WHERE id = ?`,
		it.EnrolledStudents, it.StudentsCount, it.Status, it.ID); err != nil {
		return model.Item{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Item{}, err
	}
	return it, nil
}
