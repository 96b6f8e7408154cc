package listing

import (
	"context"
	"time"

	"github.com/iliyamo/nihongo-sekai/internal/model"
)

// Loader fetches the full item set of one catalog.  It is the only
// asynchronous step of a listing request; Query runs on its result.
type Loader interface {
	Load(ctx context.Context, kind model.Kind) ([]model.Item, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, kind model.Kind) ([]model.Item, error)

func (f LoaderFunc) Load(ctx context.Context, kind model.Kind) ([]model.Item, error) {
	return f(ctx, kind)
}

// DelayedLoader adds a fixed latency in front of Next, standing in for
// the round-trip of a remote catalog API.  The wait is cut short when
// ctx is done.
type DelayedLoader struct {
	Next  Loader
	Delay time.Duration
}

func (l DelayedLoader) Load(ctx context.Context, kind model.Kind) ([]model.Item, error) {
	if l.Delay > 0 {
		t := time.NewTimer(l.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return l.Next.Load(ctx, kind)
}

// Loaded is the outcome of a staged load.
type Loaded struct {
	Items []model.Item
	Err   error
}

// Stage starts l.Load in the background and returns a channel that
// receives exactly one Loaded value.
func Stage(ctx context.Context, l Loader, kind model.Kind) <-chan Loaded {
	out := make(chan Loaded, 1)
	go func() {
		items, err := l.Load(ctx, kind)
		out <- Loaded{Items: items, Err: err}
	}()
	return out
}
