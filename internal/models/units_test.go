package models

import (
	"math"
	"testing"
)

// TestRoundTrip verifies kg→lb→kg stays within floating point tolerance for a
// spread of realistic training weights.
func TestRoundTrip(t *testing.T) {
	for _, v := range []float64{0.5, 2.5, 20, 60, 102.5, 220, 500} {
		got := ToLb(ToKg(v, UnitLB), UnitKG)
		if math.Abs(got-v) > 1e-6 {
			t.Errorf("round trip of %v lb = %v, want within 1e-6", v, got)
		}
	}
}

func TestToKg(t *testing.T) {
	tests := []struct {
		value float64
		unit  WeightUnit
		want  float64
	}{
		{220, UnitLB, 220 / 2.20462},
		{100, UnitKG, 100},
		{0, UnitLB, 0},
	}
	for _, tt := range tests {
		got := ToKg(tt.value, tt.unit)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ToKg(%v, %s) = %v, want %v", tt.value, tt.unit, got, tt.want)
		}
	}
}

func TestParseWeightUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    WeightUnit
		wantErr bool
	}{
		{"kg", UnitKG, false},
		{"KG", UnitKG, false},
		{"lbs", UnitLB, false},
		{"LB", UnitLB, false},
		{" lb ", UnitLB, false},
		{"stone", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseWeightUnit(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWeightUnit(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseWeightUnit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
