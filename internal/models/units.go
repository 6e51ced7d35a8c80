package models

import (
	"fmt"
	"strings"
)

// WeightUnit is the unit a weight value is expressed in.
type WeightUnit string

const (
	UnitKG WeightUnit = "KG"
	UnitLB WeightUnit = "LB"
)

// LbPerKg is the fixed conversion factor between pounds and kilograms.
const LbPerKg = 2.20462

// ToKg converts a weight from the given unit to kilograms.
func ToKg(value float64, unit WeightUnit) float64 {
	if unit == UnitLB {
		return value / LbPerKg
	}
	return value
}

// ToLb converts a weight from the given unit to pounds.
func ToLb(value float64, unit WeightUnit) float64 {
	if unit == UnitKG {
		return value * LbPerKg
	}
	return value
}

// ParseWeightUnit accepts the spellings seen in configs and Strong exports
// ("kg", "KG", "lb", "lbs", "LB").
func ParseWeightUnit(s string) (WeightUnit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "KG", "KGS":
		return UnitKG, nil
	case "LB", "LBS":
		return UnitLB, nil
	}
	return "", fmt.Errorf("unknown weight unit %q", s)
}
