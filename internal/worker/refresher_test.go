package worker

import (
	"context"
	"testing"
	"time"

	swx "github.com/solweather/swxgate/internal"
	"github.com/solweather/swxgate/internal/app"
	"github.com/solweather/swxgate/internal/cache"
	"github.com/solweather/swxgate/internal/testutil"
)

func TestRefresher_WarmsConfiguredProducts(t *testing.T) {
	t.Parallel()

	fake := &testutil.FakeRetriever{}
	store := cache.New(100, time.Minute)
	products := []swx.Product{
		{ID: "kp-index", Kind: swx.KindIndex},
		{ID: "solar-wind", Kind: swx.KindRealtime},
	}
	svc := app.NewFetchService(fake, store, products, nil, nil)

	w := NewRefresher(svc, []string{"kp-index", "solar-wind"}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// The initial sweep runs before the first tick.
	deadline := time.After(2 * time.Second)
	for fake.Calls() < 2 {
		select {
		case <-deadline:
			t.Fatal("initial sweep did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}

	for _, id := range []string{"kp-index", "solar-wind"} {
		if _, ok := store.GetStale(app.CacheKey(id)); !ok {
			t.Errorf("%s: cache not warmed", id)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("refresher did not stop after cancel")
	}
}

func TestRefresher_SurvivesFetchFailure(t *testing.T) {
	t.Parallel()

	fake := &testutil.FakeRetriever{
		RetrieveFn: func(_ context.Context, p swx.Product) ([]byte, error) {
			return nil, &swx.UpstreamError{ProductID: p.ID, StatusCode: 500, Status: "500 Internal Server Error"}
		},
	}
	store := cache.New(100, time.Minute)
	svc := app.NewFetchService(fake, store, []swx.Product{{ID: "alerts", Kind: swx.KindAlerts}}, nil, nil)

	w := NewRefresher(svc, []string{"alerts"}, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	if err := w.Run(ctx); err != nil {
		t.Errorf("failures must not stop the worker: %v", err)
	}
	// Initial sweep plus at least one tick retried the product.
	if fake.Calls() < 2 {
		t.Errorf("calls = %d, want at least 2", fake.Calls())
	}
}
