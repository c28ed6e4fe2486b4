package worker

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	swx "github.com/solweather/swxgate/internal"
	"github.com/solweather/swxgate/internal/app"
)

// refreshConcurrency bounds the fan-out of one warm-up sweep.
const refreshConcurrency = 4

// Refresher keeps the caches for a configured set of products warm by
// force-refreshing them on an interval. A failed refresh is logged and
// retried on the next tick; the worker itself only stops on cancellation.
type Refresher struct {
	fetcher  *app.FetchService
	products []string
	interval time.Duration
}

// NewRefresher creates a Refresher for the given product IDs.
func NewRefresher(fetcher *app.FetchService, products []string, interval time.Duration) *Refresher {
	return &Refresher{fetcher: fetcher, products: products, interval: interval}
}

// Run performs an initial warm-up sweep, then refreshes on every tick until
// ctx is cancelled.
func (w *Refresher) Run(ctx context.Context) error {
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// sweep refreshes every configured product, a few at a time. Each product
// gets exactly one upstream attempt per sweep.
func (w *Refresher) sweep(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for _, id := range w.products {
		g.Go(func() error {
			res, err := w.fetcher.Fetch(ctx, id, swx.FetchOptions{ForceRefresh: true})
			if err != nil {
				slog.LogAttrs(ctx, slog.LevelWarn, "cache refresh failed",
					slog.String("product", id),
					slog.String("error", err.Error()),
				)
				return nil
			}
			if res.Stale {
				slog.LogAttrs(ctx, slog.LevelWarn, "cache refresh served stale",
					slog.String("product", id),
					slog.String("warning", res.Warning),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
}
