// Package swpc implements the retrieval client for the NOAA Space Weather
// Prediction Center public data feeds.
package swpc

import (
	swx "github.com/solweather/swxgate/internal"
)

// DefaultBaseURL is the public SWPC services host.
const DefaultBaseURL = "https://services.swpc.noaa.gov"

// Catalog enumerates the upstream feeds the gateway serves. Paths are
// relative to the configured base URL.
var Catalog = []swx.Product{
	{
		ID:          "xray-flares",
		Kind:        swx.KindRealtime,
		Path:        "/json/goes/primary/xray-flares-7-day.json",
		TimeField:   "time_tag",
		Description: "GOES X-ray flare events, last 7 days",
	},
	{
		ID:          "xray-flux",
		Kind:        swx.KindRealtime,
		Path:        "/json/goes/primary/xrays-6-hour.json",
		TimeField:   "time_tag",
		Description: "GOES X-ray flux, 1-minute cadence, last 6 hours",
	},
	{
		ID:          "solar-wind",
		Kind:        swx.KindRealtime,
		Path:        "/json/rtsw/rtsw_wind_1m.json",
		TimeField:   "time_tag",
		Description: "Real-time solar wind plasma, 1-minute cadence",
	},
	{
		ID:          "kp-index",
		Kind:        swx.KindIndex,
		Path:        "/json/planetary_k_index_1m.json",
		TimeField:   "time_tag",
		Description: "Estimated planetary K-index, 1-minute cadence",
	},
	{
		ID:          "forecast",
		Kind:        swx.KindForecast,
		Path:        "/products/noaa-scales.json",
		Description: "Current and predicted NOAA space weather scales",
	},
	{
		ID:          "solar-cycle",
		Kind:        swx.KindHistorical,
		Path:        "/json/solar-cycle/observed-solar-cycle-indices.json",
		TimeField:   "time-tag",
		Description: "Observed solar-cycle sunspot and flux indices",
	},
	{
		ID:          "alerts",
		Kind:        swx.KindAlerts,
		Path:        "/products/alerts.json",
		TimeField:   "issue_datetime",
		Description: "SWPC alerts, watches and warnings",
	},
}

// Lookup returns the catalog entry for id.
func Lookup(id string) (swx.Product, bool) {
	for _, p := range Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return swx.Product{}, false
}
