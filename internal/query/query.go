// Package query shapes fetched record collections: time bounds, field
// filters, sorting and limits. It operates on the returned payload only and
// never touches the cache.
package query

import (
	"bytes"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	swx "github.com/solweather/swxgate/internal"
)

// Timestamp layouts seen across the SWPC feeds. Alerts carry a space
// separator with millis, indices an unzoned ISO form, the solar-cycle
// series a bare year-month.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01",
}

// Apply filters, sorts and truncates a JSON array payload according to
// opts. Non-array payloads (e.g. the scales forecast object) pass through
// unchanged. Apply is total: records whose time field cannot be parsed are
// excluded by time bounds rather than raising an error.
func Apply(data []byte, p swx.Product, opts swx.QueryOptions) []byte {
	if isZero(opts) {
		return data
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return data
	}

	records := parsed.Array()
	kept := make([]gjson.Result, 0, len(records))
	for _, rec := range records {
		if !matches(rec, p, opts) {
			continue
		}
		kept = append(kept, rec)
	}

	if opts.SortBy != "" {
		sortRecords(kept, opts.SortBy, opts.Desc)
	}
	if opts.Limit > 0 && len(kept) > opts.Limit {
		kept = kept[:opts.Limit]
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range kept {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(rec.Raw)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func isZero(opts swx.QueryOptions) bool {
	return opts.Start.IsZero() && opts.End.IsZero() &&
		len(opts.Equals) == 0 && opts.SortBy == "" && opts.Limit == 0
}

func matches(rec gjson.Result, p swx.Product, opts swx.QueryOptions) bool {
	if !opts.Start.IsZero() || !opts.End.IsZero() {
		if p.TimeField == "" {
			return false
		}
		ts, ok := parseTime(rec.Get(p.TimeField).String())
		if !ok {
			return false
		}
		if !opts.Start.IsZero() && ts.Before(opts.Start) {
			return false
		}
		if !opts.End.IsZero() && !ts.Before(opts.End) {
			return false
		}
	}
	for field, want := range opts.Equals {
		if rec.Get(field).String() != want {
			return false
		}
	}
	return true
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortRecords orders by the given field, numerically when both values are
// numbers, lexically otherwise. The sort is stable so upstream order is the
// tie-break.
func sortRecords(records []gjson.Result, field string, desc bool) {
	sort.SliceStable(records, func(i, j int) bool {
		c := compare(records[i].Get(field), records[j].Get(field))
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b gjson.Result) int {
	if a.Type == gjson.Number && b.Type == gjson.Number {
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		}
		return 0
	}
	return strings.Compare(a.String(), b.String())
}
