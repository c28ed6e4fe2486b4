package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	swx "github.com/solweather/swxgate/internal"
	"github.com/solweather/swxgate/internal/scale"
)

type summarySection struct {
	Value      float64   `json:"value"`
	Unit       string    `json:"unit,omitempty"`
	Scale      string    `json:"scale,omitempty"`
	Descriptor string    `json:"descriptor,omitempty"`
	Time       string    `json:"time,omitempty"`
	Source     string    `json:"source,omitempty"`
	FetchedAt  time.Time `json:"fetched_at,omitzero"`
	Stale      bool      `json:"stale,omitempty"`
	Error      string    `json:"error,omitempty"`
}

type summaryResponse struct {
	Success       bool            `json:"success"`
	Time          time.Time       `json:"time"`
	Geomagnetic   *summarySection `json:"geomagnetic,omitempty"`
	RadioBlackout *summarySection `json:"radio_blackout,omitempty"`
	SolarWind     *summarySection `json:"solar_wind,omitempty"`
}

// handleSummary fans out to the three nowcast feeds concurrently and
// condenses each into its NOAA scale. A single failing feed degrades its
// own section instead of the whole response.
func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	resp := summaryResponse{Success: true, Time: time.Now().UTC()}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		resp.Geomagnetic = s.summarize(ctx, "kp-index", summarizeKp)
		return nil
	})
	g.Go(func() error {
		resp.RadioBlackout = s.summarize(ctx, "xray-flux", summarizeXray)
		return nil
	})
	g.Go(func() error {
		resp.SolarWind = s.summarize(ctx, "solar-wind", summarizeWind)
		return nil
	})
	_ = g.Wait()

	writeJSON(w, http.StatusOK, resp)
}

func (s *server) summarize(ctx context.Context, id string, condense func(gjson.Result, *summarySection)) *summarySection {
	res, err := s.deps.Fetcher.Fetch(ctx, id, swx.FetchOptions{})
	if err != nil {
		return &summarySection{Error: err.Error()}
	}
	sec := &summarySection{
		Source:    res.Source,
		FetchedAt: res.FetchedAt,
		Stale:     res.Stale,
	}
	condense(gjson.ParseBytes(res.Data), sec)
	return sec
}

func summarizeKp(data gjson.Result, sec *summarySection) {
	recs := data.Array()
	if len(recs) == 0 {
		sec.Error = "no records"
		return
	}
	latest := recs[len(recs)-1]
	kp := latest.Get("kp_index").Float()
	if kp == 0 {
		kp = latest.Get("estimated_kp").Float()
	}
	lvl := scale.Geomagnetic(kp)
	sec.Value = kp
	sec.Unit = "Kp"
	sec.Scale = lvl.Scale
	sec.Descriptor = lvl.Descriptor
	sec.Time = latest.Get("time_tag").String()
}

func summarizeXray(data gjson.Result, sec *summarySection) {
	recs := data.Array()
	var latest gjson.Result
	for i := len(recs) - 1; i >= 0; i-- {
		if strings.Contains(recs[i].Get("energy").String(), "0.1-0.8") {
			latest = recs[i]
			break
		}
	}
	if !latest.Exists() {
		sec.Error = "no records"
		return
	}
	flux := latest.Get("flux").Float()
	lvl := scale.RadioBlackout(flux)
	sec.Value = flux
	sec.Unit = "W/m²"
	sec.Scale = lvl.Scale
	sec.Descriptor = lvl.Descriptor + ", class " + scale.FlareClass(flux)
	sec.Time = latest.Get("time_tag").String()
}

func summarizeWind(data gjson.Result, sec *summarySection) {
	recs := data.Array()
	if len(recs) == 0 {
		sec.Error = "no records"
		return
	}
	latest := recs[len(recs)-1]
	speed := latest.Get("proton_speed").Float()
	sec.Value = speed
	sec.Unit = "km/s"
	sec.Descriptor = scale.WindCategory(speed)
	sec.Time = latest.Get("time_tag").String()
}
