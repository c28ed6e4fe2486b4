package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	swx "github.com/solweather/swxgate/internal"
	"github.com/solweather/swxgate/internal/query"
	"github.com/solweather/swxgate/internal/report"
)

// fetchResponse wraps a fetch result with the success flag consumers key on.
type fetchResponse struct {
	Success bool `json:"success"`
	*swx.Result
}

func (s *server) handleListProducts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Products []swx.Product `json:"products"`
	}{Products: s.deps.Products})
}

func (s *server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	fetchOpts, queryOpts, err := parseOptions(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	res, err := s.deps.Fetcher.Fetch(r.Context(), id, fetchOpts)
	if err != nil {
		writeJSON(w, errorStatus(err), errorResponse(err.Error()))
		return
	}

	shaped := *res
	if p, ok := s.deps.Fetcher.Product(id); ok {
		shaped.Data = query.Apply(res.Data, p, queryOpts)
	}

	if r.URL.Query().Get("format") == "markdown" {
		p, _ := s.deps.Fetcher.Product(id)
		if zeroQuery(queryOpts) && s.deps.Reports != nil {
			// Unshaped renders memoize per payload version.
			writeMarkdown(w, http.StatusOK, s.deps.Reports.Render(p, res))
			return
		}
		writeMarkdown(w, http.StatusOK, report.Render(p, &shaped))
		return
	}

	writeJSON(w, http.StatusOK, fetchResponse{Success: true, Result: &shaped})
}

func zeroQuery(opts swx.QueryOptions) bool {
	return opts.Start.IsZero() && opts.End.IsZero() &&
		len(opts.Equals) == 0 && opts.SortBy == "" && opts.Limit == 0
}

// parseOptions reads fetch and query options from the URL query string.
// Timestamps are validated upfront so a malformed bound is a clear 400
// instead of a silently empty result.
func parseOptions(r *http.Request) (swx.FetchOptions, swx.QueryOptions, error) {
	var fo swx.FetchOptions
	var qo swx.QueryOptions
	q := r.URL.Query()

	if v := q.Get("refresh"); v != "" {
		force, err := strconv.ParseBool(v)
		if err != nil {
			return fo, qo, fmt.Errorf("%w: invalid refresh value %q", swx.ErrBadRequest, v)
		}
		fo.ForceRefresh = force
	}
	if v := q.Get("ttl"); v != "" {
		ttl, err := parseTTL(v)
		if err != nil {
			return fo, qo, fmt.Errorf("%w: invalid ttl %q", swx.ErrBadRequest, v)
		}
		fo.TTLOverride = ttl
	}
	for _, bound := range []struct {
		name string
		dst  *time.Time
	}{{"start", &qo.Start}, {"end", &qo.End}} {
		if v := q.Get(bound.name); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return fo, qo, fmt.Errorf("%w: invalid %s, use RFC3339", swx.ErrBadRequest, bound.name)
			}
			*bound.dst = t
		}
	}
	for key, vals := range q {
		if field, ok := strings.CutPrefix(key, "eq."); ok && len(vals) > 0 {
			if qo.Equals == nil {
				qo.Equals = make(map[string]string)
			}
			qo.Equals[field] = vals[0]
		}
	}
	qo.SortBy = q.Get("sort")
	switch order := q.Get("order"); order {
	case "", "asc":
	case "desc":
		qo.Desc = true
	default:
		return fo, qo, fmt.Errorf("%w: invalid order %q", swx.ErrBadRequest, order)
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fo, qo, fmt.Errorf("%w: invalid limit %q", swx.ErrBadRequest, v)
		}
		qo.Limit = n
	}
	return fo, qo, nil
}

// parseTTL accepts either a Go duration ("90s") or a bare number of seconds.
func parseTTL(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("ttl must be positive")
		}
		return d, nil
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("ttl must be a positive duration or seconds value")
	}
	return time.Duration(secs * float64(time.Second)), nil
}
