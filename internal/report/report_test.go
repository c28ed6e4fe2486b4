package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	swx "github.com/solweather/swxgate/internal"
)

func result(data string) *swx.Result {
	return &swx.Result{
		Source:    swx.SourceFetch,
		FetchedAt: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
		Data:      json.RawMessage(data),
	}
}

func TestRender_Kp(t *testing.T) {
	t.Parallel()

	p := swx.Product{ID: "kp-index", Description: "Planetary K-index"}
	out := Render(p, result(`[{"time_tag":"2026-08-28T09:00:00","kp_index":7.33}]`))

	for _, want := range []string{"## Planetary K-index", "| time | Kp | scale |", "G3 (Strong)", "7.33"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRender_SolarWind(t *testing.T) {
	t.Parallel()

	p := swx.Product{ID: "solar-wind", Description: "Solar wind"}
	out := Render(p, result(`[
		{"time_tag":"2026-08-28T11:58:00","proton_speed":380,"proton_density":4.2,"proton_temperature":90000},
		{"time_tag":"2026-08-28T11:59:00","proton_speed":652,"proton_density":8.1,"proton_temperature":250000}
	]`))

	if !strings.Contains(out, "652 km/s") {
		t.Errorf("should report the latest reading:\n%s", out)
	}
	if !strings.Contains(out, "(high)") {
		t.Errorf("should categorize the speed:\n%s", out)
	}
}

func TestRender_XrayFluxPicksLongBand(t *testing.T) {
	t.Parallel()

	p := swx.Product{ID: "xray-flux", Description: "X-ray flux"}
	out := Render(p, result(`[
		{"time_tag":"2026-08-28T11:59:00","flux":1.0e-8,"energy":"0.05-0.4nm"},
		{"time_tag":"2026-08-28T11:59:00","flux":2.2e-5,"energy":"0.1-0.8nm"}
	]`))

	if !strings.Contains(out, "M2.2") {
		t.Errorf("should classify the long-band flux:\n%s", out)
	}
	if !strings.Contains(out, "R1") {
		t.Errorf("should include the R scale:\n%s", out)
	}
}

func TestRender_StaleAnnotation(t *testing.T) {
	t.Parallel()

	p := swx.Product{ID: "alerts", Description: "Alerts"}
	res := result(`[]`)
	res.Source = swx.SourceCache
	res.Stale = true
	res.Warning = "stale data: upstream returned HTTP 503 Service Unavailable"

	out := Render(p, res)
	if !strings.Contains(out, "**(stale)**") {
		t.Errorf("stale marker missing:\n%s", out)
	}
	if !strings.Contains(out, "> stale data:") {
		t.Errorf("warning blockquote missing:\n%s", out)
	}
}

func TestRender_GenericTable(t *testing.T) {
	t.Parallel()

	p := swx.Product{ID: "solar-cycle", Description: "Solar cycle"}
	out := Render(p, result(`[{"time-tag":"2026-07","ssn":131.5}]`))

	if !strings.Contains(out, "| time-tag | ssn |") {
		t.Errorf("generic table header missing:\n%s", out)
	}
	if !strings.Contains(out, "2026-07") {
		t.Errorf("row missing:\n%s", out)
	}
}

func TestMemo_ReusesRender(t *testing.T) {
	t.Parallel()

	m, err := NewMemo(16, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	p := swx.Product{ID: "kp-index", Description: "Planetary K-index"}
	res := result(`[{"time_tag":"2026-08-28T09:00:00","kp_index":3}]`)

	first := m.Render(p, res)
	second := m.Render(p, res)
	if first != second {
		t.Error("memoized render should be identical")
	}

	// A new payload version (different FetchedAt) renders fresh.
	res2 := result(`[{"time_tag":"2026-08-28T12:00:00","kp_index":5}]`)
	res2.FetchedAt = res.FetchedAt.Add(time.Minute)
	third := m.Render(p, res2)
	if third == first {
		t.Error("new payload version must not reuse the old render")
	}
}

func TestMemo_SkipsDegradedResults(t *testing.T) {
	t.Parallel()

	m, err := NewMemo(16, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	p := swx.Product{ID: "alerts", Description: "Alerts"}
	res := result(`[]`)
	res.Stale = true
	res.Warning = "stale data: fetch failed"

	out := m.Render(p, res)
	if !strings.Contains(out, "stale data") {
		t.Errorf("degraded render missing warning:\n%s", out)
	}
}
