package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/maypok86/otter/v2"

	swx "github.com/solweather/swxgate/internal"
)

// Memo caches rendered markdown keyed by product and payload fetch time, so
// a report over an unchanged cache entry renders once. Degraded (stale or
// warning-carrying) results are rendered directly: their text varies with
// the failure, and memoizing them would serve an outdated advisory.
type Memo struct {
	cache *otter.Cache[string, string]
}

// NewMemo creates a render memo holding at most maxSize reports, each kept
// at most ttl after rendering.
func NewMemo(maxSize int, ttl time.Duration) (*Memo, error) {
	c, err := otter.New[string, string](&otter.Options[string, string]{
		MaximumSize:      maxSize,
		ExpiryCalculator: otter.ExpiryWriting[string, string](ttl),
	})
	if err != nil {
		return nil, fmt.Errorf("create report memo: %w", err)
	}
	return &Memo{cache: c}, nil
}

// Render returns the markdown report for res, reusing a previously rendered
// copy when the same payload version was rendered before.
func (m *Memo) Render(p swx.Product, res *swx.Result) string {
	if m == nil || res.Stale || res.Warning != "" {
		return Render(p, res)
	}
	key := p.ID + "@" + strconv.FormatInt(res.FetchedAt.UnixNano(), 10)
	if out, ok := m.cache.GetIfPresent(key); ok {
		return out
	}
	out := Render(p, res)
	m.cache.Set(key, out)
	return out
}
