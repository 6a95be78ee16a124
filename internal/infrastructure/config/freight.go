package config

import (
	"fmt"

	"github.com/hapkiduki/freight-go/internal/application/service"
	"github.com/hapkiduki/freight-go/internal/domain/valueobject"
)

// Settings converts the freight section into service.FreightSettings.
//
// Returns:
//   - service.FreightSettings: divisors and rates keyed by freight mode
//   - error: ErrInvalidConfig for unknown modes or currencies
func (f FreightConfig) Settings() (service.FreightSettings, error) {
	settings := service.DefaultFreightSettings()
	if f.MaxDimension > 0 {
		settings.MaxDimension = f.MaxDimension
	}
	if f.DefaultDivisor > 0 {
		settings.DefaultDivisor = f.DefaultDivisor
	}

	currency, err := valueobject.ParseCurrency(f.Currency)
	if err != nil {
		return settings, fmt.Errorf("%w: freight.currency %q", ErrInvalidConfig, f.Currency)
	}
	settings.Currency = currency

	for key, divisor := range f.Divisors {
		mode := valueobject.FreightMode(key)
		if !mode.IsValid() {
			return settings, fmt.Errorf("%w: freight.divisors has unknown mode %q", ErrInvalidConfig, key)
		}
		settings.Divisors[mode] = divisor
	}
	for key, rate := range f.RatesPerKg {
		mode := valueobject.FreightMode(key)
		if !mode.IsValid() {
			return settings, fmt.Errorf("%w: freight.rates_per_kg has unknown mode %q", ErrInvalidConfig, key)
		}
		settings.RatesPerKg[mode] = rate
	}
	return settings, nil
}
