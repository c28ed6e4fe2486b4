// Package testutil provides configurable test fakes for gateway interfaces.
package testutil

import (
	"context"
	"sync/atomic"

	swx "github.com/solweather/swxgate/internal"
)

// FakeRetriever is a configurable swx.Retriever for testing.
type FakeRetriever struct {
	RetrieveFn func(ctx context.Context, p swx.Product) ([]byte, error)
	calls      atomic.Int64
}

// Retrieve delegates to RetrieveFn, or returns an empty array payload.
func (f *FakeRetriever) Retrieve(ctx context.Context, p swx.Product) ([]byte, error) {
	f.calls.Add(1)
	if f.RetrieveFn != nil {
		return f.RetrieveFn(ctx, p)
	}
	return []byte(`[]`), nil
}

// Calls reports how many times Retrieve was invoked.
func (f *FakeRetriever) Calls() int {
	return int(f.calls.Load())
}
