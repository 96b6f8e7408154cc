package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/iliyamo/nihongo-sekai/internal/listing"
	"github.com/iliyamo/nihongo-sekai/internal/metrics"
	"github.com/iliyamo/nihongo-sekai/internal/model"
	"github.com/iliyamo/nihongo-sekai/internal/queue"
	"github.com/iliyamo/nihongo-sekai/internal/tracing"
)

// ErrCatalogUnavailable wraps loader failures.  The request can be
// retried.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// CatalogStore is the catalog backend: repository.CatalogRepo for MySQL
// or repository.MemoryCatalog for the seed data.
type CatalogStore interface {
	listing.Loader
	GetByID(ctx context.Context, kind model.Kind, id uint64) (model.Item, error)
	Enroll(ctx context.Context, classroomID, userID uint64) (model.Item, error)
}

// Purger drops cached catalog responses after a write.
type Purger interface {
	Purge(ctx context.Context) error
}

// CatalogService answers listing queries and classroom enrollments.
type CatalogService struct {
	store  CatalogStore
	loader listing.Loader
	pub    EventPublisher
	cache  Purger
	log    *slog.Logger
	now    func() time.Time
}

// NewCatalogService wraps store with an optional artificial load delay.
// pub and cache may be nil.
func NewCatalogService(store CatalogStore, delay time.Duration, pub EventPublisher, cache Purger, lg *slog.Logger) *CatalogService {
	if lg == nil {
		lg = slog.Default()
	}
	var loader listing.Loader = store
	if delay > 0 {
		loader = listing.DelayedLoader{Next: store, Delay: delay}
	}
	return &CatalogService{store: store, loader: loader, pub: pub, cache: cache, log: lg, now: time.Now}
}

// Search loads the catalog of kind and runs the listing query.  With
// p.Clamp set, a page past the end is moved back to the last page that
// has results.
func (s *CatalogService) Search(ctx context.Context, kind model.Kind, p listing.Params) (listing.Result, error) {
	ctx, span := tracing.Tracer("catalog").Start(ctx, "catalog.Search")
	defer span.End()
	span.SetAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("sort", string(p.Sort)),
		attribute.Int("page", p.Page.Number),
		attribute.Int("page_size", p.Page.Size),
	)
	start := time.Now()
	defer func() { metrics.ListingQueryDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds()) }()

	var loaded listing.Loaded
	select {
	case loaded = <-listing.Stage(ctx, s.loader, kind):
	case <-ctx.Done():
		loaded.Err = ctx.Err()
	}
	if loaded.Err != nil {
		span.RecordError(loaded.Err)
		span.SetStatus(codes.Error, "load failed")
		metrics.ListingQueries.WithLabelValues(string(kind), "error").Inc()
		return listing.Result{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, loaded.Err)
	}

	res := listing.Query(loaded.Items, p.Filters, p.Sort, p.Page)
	if p.Clamp && len(res.Items) == 0 && res.TotalCount > 0 {
		page := listing.Page{Number: listing.ClampPage(p.Page.Number, p.Page.Size, res.TotalCount), Size: p.Page.Size}
		res = listing.Query(loaded.Items, p.Filters, p.Sort, page)
	}

	outcome := "ok"
	if res.Empty() {
		outcome = "empty"
	}
	metrics.ListingQueries.WithLabelValues(string(kind), outcome).Inc()
	span.SetAttributes(attribute.Int("total", res.TotalCount))
	return res, nil
}

func (s *CatalogService) Get(ctx context.Context, kind model.Kind, id uint64) (model.Item, error) {
	return s.store.GetByID(ctx, kind, id)
}

// Enroll seats user in a classroom, drops cached listings and publishes
// classroom.enrolled.  Publish and purge failures are logged only.
func (s *CatalogService) Enroll(ctx context.Context, classroomID uint64, user model.User) (model.Item, error) {
	it, err := s.store.Enroll(ctx, classroomID, user.ID)
	if err != nil {
		return model.Item{}, err
	}
	s.log.InfoContext(ctx, "classroom enrollment",
		slog.Uint64("classroom_id", it.ID), slog.Uint64("user_id", user.ID),
		slog.Int("enrolled", it.EnrolledStudents), slog.Int("max", it.MaxStudents))

	if s.cache != nil {
		if err := s.cache.Purge(ctx); err != nil {
			s.log.WarnContext(ctx, "catalog cache purge failed", slog.Any("error", err))
		}
	}
	if s.pub != nil {
		ev := queue.EnrollmentConfirmedEvent{
			EventID:          uuid.NewString(),
			ClassroomID:      it.ID,
			ClassroomTitle:   it.Title,
			Instructor:       it.Instructor.Name,
			UserID:           user.ID,
			UserName:         user.Name,
			EnrolledStudents: it.EnrolledStudents,
			MaxStudents:      it.MaxStudents,
			Full:             it.Status == model.StatusFull,
			EnrolledAt:       s.now().UTC().Format(time.RFC3339),
		}
		if it.StartsAt != nil {
			ev.StartsAt = it.StartsAt.UTC().Format(time.RFC3339)
		}
		_ = s.pub.Publish(ctx, queue.EnrollmentQueue, ev)
	}
	return it, nil
}
