package service

import (
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
)

// FreightSettings holds the per-mode measurement and pricing configuration.
type FreightSettings struct {
	// MaxDimension is the largest accepted length, width or height in cm.
	MaxDimension float64

	// DefaultDivisor is used for modes without an explicit divisor.
	DefaultDivisor float64

	// Divisors maps a freight mode to its volumetric divisor.
	Divisors map[valueobject.FreightMode]float64

	// Currency prices quotes.
	Currency valueobject.Currency

	// RatesPerKg maps a freight mode to its price per chargeable kg, in minor units.
	RatesPerKg map[valueobject.FreightMode]int64
}

// DefaultFreightSettings uses the air-freight divisor for every mode.
func DefaultFreightSettings() FreightSettings {
	return FreightSettings{
		MaxDimension:   valueobject.DefaultMaxDimension,
		DefaultDivisor: valueobject.DefaultDivisor,
		Divisors:       map[valueobject.FreightMode]float64{},
		Currency:       valueobject.CurrencyUSD,
		RatesPerKg:     map[valueobject.FreightMode]int64{},
	}
}

// Divisor returns the volumetric divisor for mode.
func (f FreightSettings) Divisor(mode valueobject.FreightMode) float64 {
	if d, ok := f.Divisors[mode]; ok && d > 0 {
		return d
	}
	if f.DefaultDivisor > 0 {
		return f.DefaultDivisor
	}
	return valueobject.DefaultDivisor
}

// Price returns the freight charge for a chargeable weight.
// Modes without a rate price at zero.
//
// Returns:
//   - valueobject.Money: rate x chargeableKg in minor units
//   - error: valueobject.ErrAmountOutOfRange if the charge overflows
func (f FreightSettings) Price(mode valueobject.FreightMode, chargeableKg float64) (valueobject.Money, error) {
	rate := valueobject.NewMoney(f.RatesPerKg[mode], f.Currency)
	return rate.MultiplyFloat(chargeableKg)
}
