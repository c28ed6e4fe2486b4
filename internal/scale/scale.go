// Package scale classifies raw space weather measurements onto the NOAA
// scales and related qualitative categories. All functions are pure lookups.
package scale

import "fmt"

// Level is one step on a NOAA scale (G, R or S).
type Level struct {
	Scale      string `json:"scale"`      // e.g. "G3"
	Descriptor string `json:"descriptor"` // e.g. "Strong"
}

// descriptors in ascending severity; index 0 is below-scale.
var descriptors = [...]string{"None", "Minor", "Moderate", "Strong", "Severe", "Extreme"}

func level(prefix string, n int) Level {
	return Level{Scale: fmt.Sprintf("%s%d", prefix, n), Descriptor: descriptors[n]}
}

// Geomagnetic maps a planetary K-index onto the NOAA G scale.
// Kp 5 through 9 correspond to G1 through G5; below 5 is quiet.
func Geomagnetic(kp float64) Level {
	switch {
	case kp >= 9:
		return level("G", 5)
	case kp >= 8:
		return level("G", 4)
	case kp >= 7:
		return level("G", 3)
	case kp >= 6:
		return level("G", 2)
	case kp >= 5:
		return level("G", 1)
	}
	return level("G", 0)
}

// RadioBlackout maps a GOES long-band X-ray flux (W/m^2) onto the NOAA R
// scale. Thresholds are the M1, M5, X1, X10 and X20 flare levels.
func RadioBlackout(flux float64) Level {
	switch {
	case flux >= 2e-3:
		return level("R", 5)
	case flux >= 1e-3:
		return level("R", 4)
	case flux >= 1e-4:
		return level("R", 3)
	case flux >= 5e-5:
		return level("R", 2)
	case flux >= 1e-5:
		return level("R", 1)
	}
	return level("R", 0)
}

// Radiation maps a >=10 MeV proton flux (pfu) onto the NOAA S scale.
func Radiation(flux float64) Level {
	switch {
	case flux >= 1e5:
		return level("S", 5)
	case flux >= 1e4:
		return level("S", 4)
	case flux >= 1e3:
		return level("S", 3)
	case flux >= 100:
		return level("S", 2)
	case flux >= 10:
		return level("S", 1)
	}
	return level("S", 0)
}

// FlareClass renders an X-ray flux (W/m^2) as a flare classification such
// as "C5.3" or "X9.0". Fluxes below the A floor are reported as "A0.0".
func FlareClass(flux float64) string {
	type band struct {
		letter string
		floor  float64
	}
	bands := []band{
		{"X", 1e-4},
		{"M", 1e-5},
		{"C", 1e-6},
		{"B", 1e-7},
		{"A", 1e-8},
	}
	for _, b := range bands {
		if flux >= b.floor {
			return fmt.Sprintf("%s%.1f", b.letter, flux/b.floor)
		}
	}
	return "A0.0"
}

// WindCategory buckets a solar wind speed (km/s) into a qualitative band.
func WindCategory(speed float64) string {
	switch {
	case speed >= 800:
		return "extreme"
	case speed >= 600:
		return "high"
	case speed >= 400:
		return "elevated"
	}
	return "slow"
}
