// Package report renders fetched space weather records as markdown.
package report

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	swx "github.com/solweather/swxgate/internal"
	"github.com/solweather/swxgate/internal/scale"
)

// maxRows bounds table output; the minute-cadence feeds carry hundreds of
// records and a report is a digest, not an export.
const maxRows = 25

// Render produces a markdown report for a fetch result.
func Render(p swx.Product, res *swx.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", p.Description)
	fmt.Fprintf(&b, "_source: %s, fetched %s_", res.Source, res.FetchedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	if res.Stale {
		b.WriteString(" **(stale)**")
	}
	b.WriteString("\n\n")
	if res.Warning != "" {
		fmt.Fprintf(&b, "> %s\n\n", res.Warning)
	}

	data := gjson.ParseBytes(res.Data)
	switch p.ID {
	case "kp-index":
		renderKp(&b, data)
	case "alerts":
		renderAlerts(&b, data)
	case "solar-wind":
		renderSolarWind(&b, data)
	case "xray-flux":
		renderXrayFlux(&b, data)
	default:
		renderTable(&b, data)
	}
	return b.String()
}

func renderKp(b *strings.Builder, data gjson.Result) {
	b.WriteString("| time | Kp | scale |\n|---|---|---|\n")
	rows := tail(data.Array(), maxRows)
	for _, rec := range rows {
		kp := rec.Get("kp_index").Float()
		if kp == 0 {
			kp = rec.Get("estimated_kp").Float()
		}
		lvl := scale.Geomagnetic(kp)
		fmt.Fprintf(b, "| %s | %.2f | %s (%s) |\n",
			rec.Get("time_tag").String(), kp, lvl.Scale, lvl.Descriptor)
	}
}

func renderAlerts(b *strings.Builder, data gjson.Result) {
	for i, rec := range data.Array() {
		if i >= maxRows {
			break
		}
		fmt.Fprintf(b, "### %s %s\n\n", rec.Get("product_id").String(), rec.Get("issue_datetime").String())
		msg := rec.Get("message").String()
		if len(msg) > 500 {
			msg = msg[:500] + "…"
		}
		b.WriteString(msg)
		b.WriteString("\n\n")
	}
}

func renderSolarWind(b *strings.Builder, data gjson.Result) {
	recs := data.Array()
	if len(recs) == 0 {
		b.WriteString("no data\n")
		return
	}
	latest := recs[len(recs)-1]
	speed := latest.Get("proton_speed").Float()
	fmt.Fprintf(b, "Latest reading at %s:\n\n", latest.Get("time_tag").String())
	fmt.Fprintf(b, "- speed: **%.0f km/s** (%s)\n", speed, scale.WindCategory(speed))
	fmt.Fprintf(b, "- density: %.1f p/cm³\n", latest.Get("proton_density").Float())
	fmt.Fprintf(b, "- temperature: %.0f K\n", latest.Get("proton_temperature").Float())
}

func renderXrayFlux(b *strings.Builder, data gjson.Result) {
	recs := data.Array()
	// The long band (0.1-0.8 nm) drives flare classification; take its
	// most recent sample.
	var latest gjson.Result
	for i := len(recs) - 1; i >= 0; i-- {
		if strings.Contains(recs[i].Get("energy").String(), "0.1-0.8") {
			latest = recs[i]
			break
		}
	}
	if !latest.Exists() && len(recs) > 0 {
		latest = recs[len(recs)-1]
	}
	if !latest.Exists() {
		b.WriteString("no data\n")
		return
	}
	flux := latest.Get("flux").Float()
	lvl := scale.RadioBlackout(flux)
	fmt.Fprintf(b, "Latest long-band flux at %s:\n\n", latest.Get("time_tag").String())
	fmt.Fprintf(b, "- flux: %.2e W/m² (class **%s**)\n", flux, scale.FlareClass(flux))
	fmt.Fprintf(b, "- radio blackout: %s (%s)\n", lvl.Scale, lvl.Descriptor)
}

// renderTable emits a generic table from an array of flat records, columns
// taken from the first record in its own key order.
func renderTable(b *strings.Builder, data gjson.Result) {
	recs := data.Array()
	if len(recs) == 0 {
		b.WriteString("```json\n")
		b.WriteString(data.Raw)
		b.WriteString("\n```\n")
		return
	}
	var cols []string
	recs[0].ForEach(func(key, _ gjson.Result) bool {
		cols = append(cols, key.String())
		return true
	})
	if len(cols) == 0 {
		b.WriteString("```json\n")
		b.WriteString(data.Raw)
		b.WriteString("\n```\n")
		return
	}
	b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	b.WriteString(strings.Repeat("|---", len(cols)) + "|\n")
	for _, rec := range tail(recs, maxRows) {
		vals := make([]string, len(cols))
		for i, c := range cols {
			vals[i] = rec.Get(c).String()
		}
		b.WriteString("| " + strings.Join(vals, " | ") + " |\n")
	}
}

// tail returns the last n elements, keeping the most recent records of the
// time-ordered feeds.
func tail(recs []gjson.Result, n int) []gjson.Result {
	if len(recs) > n {
		return recs[len(recs)-n:]
	}
	return recs
}
