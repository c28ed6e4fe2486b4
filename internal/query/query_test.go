package query

import (
	"testing"
	"time"

	"github.com/tidwall/gjson"

	swx "github.com/solweather/swxgate/internal"
)

var kpProduct = swx.Product{ID: "kp-index", TimeField: "time_tag"}

const kpPayload = `[
	{"time_tag":"2026-08-27T00:00:00","kp_index":2,"station":"boulder"},
	{"time_tag":"2026-08-27T03:00:00","kp_index":5,"station":"boulder"},
	{"time_tag":"2026-08-27T06:00:00","kp_index":7,"station":"fredericksburg"},
	{"time_tag":"2026-08-27T09:00:00","kp_index":4,"station":"boulder"}
]`

func ids(t *testing.T, data []byte, field string) []string {
	t.Helper()
	var out []string
	for _, rec := range gjson.ParseBytes(data).Array() {
		out = append(out, rec.Get(field).String())
	}
	return out
}

func TestApply_NoOptionsPassThrough(t *testing.T) {
	t.Parallel()

	got := Apply([]byte(kpPayload), kpProduct, swx.QueryOptions{})
	if string(got) != kpPayload {
		t.Error("zero options must not touch the payload")
	}
}

func TestApply_TimeBounds(t *testing.T) {
	t.Parallel()

	opts := swx.QueryOptions{
		Start: time.Date(2026, 8, 27, 3, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC),
	}
	got := ids(t, Apply([]byte(kpPayload), kpProduct, opts), "time_tag")
	want := []string{"2026-08-27T03:00:00", "2026-08-27T06:00:00"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestApply_EqualsFilter(t *testing.T) {
	t.Parallel()

	opts := swx.QueryOptions{Equals: map[string]string{"station": "fredericksburg"}}
	out := gjson.ParseBytes(Apply([]byte(kpPayload), kpProduct, opts)).Array()
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	if kp := out[0].Get("kp_index").Int(); kp != 7 {
		t.Errorf("kp_index = %d, want 7", kp)
	}
}

func TestApply_SortAndLimit(t *testing.T) {
	t.Parallel()

	opts := swx.QueryOptions{SortBy: "kp_index", Desc: true, Limit: 2}
	out := gjson.ParseBytes(Apply([]byte(kpPayload), kpProduct, opts)).Array()
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2", len(out))
	}
	if a, b := out[0].Get("kp_index").Int(), out[1].Get("kp_index").Int(); a != 7 || b != 5 {
		t.Errorf("top two = %d, %d, want 7, 5", a, b)
	}
}

func TestApply_SortAscendingNumeric(t *testing.T) {
	t.Parallel()

	opts := swx.QueryOptions{SortBy: "kp_index"}
	out := gjson.ParseBytes(Apply([]byte(kpPayload), kpProduct, opts)).Array()
	prev := int64(-1)
	for _, rec := range out {
		kp := rec.Get("kp_index").Int()
		if kp < prev {
			t.Fatalf("not ascending: %d after %d", kp, prev)
		}
		prev = kp
	}
}

func TestApply_NonArrayPassThrough(t *testing.T) {
	t.Parallel()

	scales := `{"0":{"G":{"Scale":"1"}},"1":{"G":{"Scale":"0"}}}`
	got := Apply([]byte(scales), swx.Product{ID: "forecast"}, swx.QueryOptions{Limit: 1})
	if string(got) != scales {
		t.Error("non-array payloads must pass through unchanged")
	}
}

func TestApply_BoundsWithoutTimeField(t *testing.T) {
	t.Parallel()

	// A product with no declared time field matches no records under
	// time bounds, rather than erroring.
	opts := swx.QueryOptions{Start: time.Unix(0, 0).UTC().Add(time.Hour)}
	out := gjson.ParseBytes(Apply([]byte(kpPayload), swx.Product{ID: "x"}, opts)).Array()
	if len(out) != 0 {
		t.Errorf("got %d records, want 0", len(out))
	}
}

func TestApply_AlertTimestampLayout(t *testing.T) {
	t.Parallel()

	alerts := swx.Product{ID: "alerts", TimeField: "issue_datetime"}
	payload := `[
		{"issue_datetime":"2026-08-27 02:00:00.000","message":"WARNING"},
		{"issue_datetime":"2026-08-27 22:00:00.000","message":"ALERT"}
	]`
	opts := swx.QueryOptions{Start: time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)}
	out := gjson.ParseBytes(Apply([]byte(payload), alerts, opts)).Array()
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	if msg := out[0].Get("message").String(); msg != "ALERT" {
		t.Errorf("message = %q, want ALERT", msg)
	}
}
