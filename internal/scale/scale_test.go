package scale

import "testing"

func TestGeomagnetic(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kp   float64
		want string
	}{
		{0, "G0"},
		{4.67, "G0"},
		{5, "G1"},
		{5.33, "G1"},
		{6, "G2"},
		{7, "G3"},
		{8.67, "G4"},
		{9, "G5"},
	}
	for _, tt := range tests {
		if got := Geomagnetic(tt.kp); got.Scale != tt.want {
			t.Errorf("Geomagnetic(%v) = %s, want %s", tt.kp, got.Scale, tt.want)
		}
	}
	if got := Geomagnetic(7).Descriptor; got != "Strong" {
		t.Errorf("descriptor = %q, want Strong", got)
	}
}

func TestRadioBlackout(t *testing.T) {
	t.Parallel()
	tests := []struct {
		flux float64
		want string
	}{
		{1e-7, "R0"},
		{1e-5, "R1"},
		{4.9e-5, "R1"},
		{5e-5, "R2"},
		{1e-4, "R3"},
		{1e-3, "R4"},
		{2e-3, "R5"},
	}
	for _, tt := range tests {
		if got := RadioBlackout(tt.flux); got.Scale != tt.want {
			t.Errorf("RadioBlackout(%g) = %s, want %s", tt.flux, got.Scale, tt.want)
		}
	}
}

func TestRadiation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		flux float64
		want string
	}{
		{1, "S0"},
		{10, "S1"},
		{99, "S1"},
		{100, "S2"},
		{1e3, "S3"},
		{1e4, "S4"},
		{1e5, "S5"},
	}
	for _, tt := range tests {
		if got := Radiation(tt.flux); got.Scale != tt.want {
			t.Errorf("Radiation(%g) = %s, want %s", tt.flux, got.Scale, tt.want)
		}
	}
}

func TestFlareClass(t *testing.T) {
	t.Parallel()
	tests := []struct {
		flux float64
		want string
	}{
		{5.3e-6, "C5.3"},
		{1e-5, "M1.0"},
		{2.2e-5, "M2.2"},
		{9e-4, "X9.0"},
		{2.8e-3, "X28.0"},
		{3.2e-7, "B3.2"},
		{1e-9, "A0.0"},
	}
	for _, tt := range tests {
		if got := FlareClass(tt.flux); got != tt.want {
			t.Errorf("FlareClass(%g) = %s, want %s", tt.flux, got, tt.want)
		}
	}
}

func TestWindCategory(t *testing.T) {
	t.Parallel()
	tests := []struct {
		speed float64
		want  string
	}{
		{320, "slow"},
		{400, "elevated"},
		{599, "elevated"},
		{600, "high"},
		{810, "extreme"},
	}
	for _, tt := range tests {
		if got := WindCategory(tt.speed); got != tt.want {
			t.Errorf("WindCategory(%v) = %s, want %s", tt.speed, got, tt.want)
		}
	}
}
