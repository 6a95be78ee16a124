package valueobject

import (
	"errors"
	"strings"
)

// ErrInvalidFreightMode is returned for an unknown freight mode.
var ErrInvalidFreightMode = errors.New("invalid freight mode")

// FreightMode identifies the transport used for a shipment.
// Each mode may carry its own volumetric divisor.
type FreightMode string

// Supported freight modes.
const (
	FreightModeAir     FreightMode = "air"
	FreightModeSea     FreightMode = "sea"
	FreightModeRoad    FreightMode = "road"
	FreightModeExpress FreightMode = "express"
)

// FreightModes lists every supported mode.
var FreightModes = []FreightMode{FreightModeAir, FreightModeSea, FreightModeRoad, FreightModeExpress}

// ParseFreightMode normalizes and validates a freight mode.
// An empty value defaults to air freight.
//
// Parameters:
//   - value: raw mode (case-insensitive)
//
// Returns:
//   - FreightMode: the parsed mode
//   - error: ErrInvalidFreightMode if the mode is unknown
func ParseFreightMode(value string) (FreightMode, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return FreightModeAir, nil
	}
	mode := FreightMode(value)
	if !mode.IsValid() {
		return "", ErrInvalidFreightMode
	}
	return mode, nil
}

// IsValid reports whether the mode is supported.
func (m FreightMode) IsValid() bool {
	for _, known := range FreightModes {
		if m == known {
			return true
		}
	}
	return false
}

// ChargeableWeight is the billing weight of a shipment.
// Chargeable is the greater of Actual and Dimensional.
type ChargeableWeight struct {
	// Actual is the declared weight in kg.
	Actual float64 `json:"actual_weight"`

	// Dimensional is the volumetric weight in kg.
	Dimensional float64 `json:"dimensional_weight"`

	// Chargeable is the weight the shipment is billed against.
	Chargeable float64 `json:"chargeable_weight"`

	// IsDimensional is true when the dimensional weight is binding (ties included).
	IsDimensional bool `json:"is_dimensional"`
}

// CalculateChargeableWeight resolves the billing weight for a shipment.
// Dimensional weight uses the lenient parser, so bad dimension text
// degrades to billing on actual weight.
//
// Parameters:
//   - actualWeight: declared weight in kg
//   - dimensions: "L x W x H" text in centimeters
//   - divisor: volumetric divisor; use DefaultDivisor for air freight
//
// Returns:
//   - ChargeableWeight: actual, dimensional and chargeable weights
func CalculateChargeableWeight(actualWeight float64, dimensions string, divisor float64) ChargeableWeight {
	dimensional := CalculateDimensionalWeight(dimensions, divisor)

	chargeable := actualWeight
	if dimensional > chargeable {
		chargeable = dimensional
	}

	return ChargeableWeight{
		Actual:        actualWeight,
		Dimensional:   dimensional,
		Chargeable:    chargeable,
		IsDimensional: chargeable == dimensional,
	}
}
