package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MaxConcurrency caps the number of goroutines a single Map call starts.
const MaxConcurrency = 256

// ErrNilFunc is returned when Map is called without a work function.
var ErrNilFunc = errors.New("batch function cannot be nil")

// Func computes the result for one item. index is the item's position in
// the input slice.
type Func[T, R any] func(ctx context.Context, item T, index int) (R, error)

// ProgressCallback is invoked after each item completes. Calls may come
// from different goroutines but never concurrently.
type ProgressCallback func(snapshot ProgressSnapshot)

// Map evaluates fn for every item using at most workers goroutines and
// returns the results in input order. workers <= 0 means GOMAXPROCS.
// The first error cancels the context passed to the remaining calls and
// is returned wrapped with the failing index.
func Map[T, R any](ctx context.Context, workers int, items []T, fn Func[T, R]) ([]R, error) {
	return MapWithProgress(ctx, workers, items, fn, nil)
}

// MapWithProgress is Map with a progress callback.
func MapWithProgress[T, R any](
	ctx context.Context,
	workers int,
	items []T,
	fn Func[T, R],
	onProgress ProgressCallback,
) ([]R, error) {
	if fn == nil {
		return nil, ErrNilFunc
	}

	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(workers, len(items)))

	progress := NewProgress(len(items))

	for i, item := range items {
		// Stop scheduling once a call has failed or the caller cancelled.
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r, err := fn(gctx, item, i)
			if err != nil {
				return fmt.Errorf("item %d failed: %w", i, err)
			}
			results[i] = r

			if onProgress != nil {
				progress.doneAndNotify(onProgress)
			} else {
				progress.Done()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Workers resolves the effective goroutine count for n items.
func Workers(requested, n int) int {
	w := requested
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	w = min(w, MaxConcurrency)
	if n > 0 {
		w = min(w, n)
	}
	return max(w, 1)
}
