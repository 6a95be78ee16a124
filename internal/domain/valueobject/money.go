// Package valueobject holds the immutable values of the freight domain:
// parcel dimensions, chargeable weight, tracking numbers and money.
// Constructors validate their input, and methods return new values rather
// than mutating the receiver.
package valueobject

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Currency represents a monetary currency using ISO 4217 codes.
type Currency string

// Supported currencies in the system.
const (
	CurrencyUSD Currency = "USD" // US Dollar
	CurrencyEUR Currency = "EUR" // Euro
	CurrencyGBP Currency = "GBP" // British Pound
	CurrencyAED Currency = "AED" // UAE Dirham
	CurrencyCOP Currency = "COP" // Colombian Peso
)

// Money errors define domain-specific error conditions.
var (
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrNegativeAmount   = errors.New("money amount cannot be negative")
	ErrAmountOutOfRange = errors.New("money amount out of range")
)

// ParseCurrency normalizes and validates an ISO 4217 code.
// An empty value defaults to USD.
//
// Parameters:
//   - code: currency code (case-insensitive)
//
// Returns:
//   - Currency: the parsed currency
//   - error: ErrInvalidCurrency if unsupported
func ParseCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return CurrencyUSD, nil
	}
	switch c := Currency(code); c {
	case CurrencyUSD, CurrencyEUR, CurrencyGBP, CurrencyAED, CurrencyCOP:
		return c, nil
	}
	return "", ErrInvalidCurrency
}

// Money represents a monetary value with currency.
// It stores amounts in the smallest unit (cents) to avoid floating-point issues.
//
// Example usage:
//
//	rate := valueobject.NewMoney(450, valueobject.CurrencyUSD) // $4.50 per kg
//	price, err := rate.MultiplyFloat(12.5)                    // $56.25
type Money struct {
	// Amount in smallest currency unit (e.g., cents for USD)
	Amount int64 `json:"amount"`

	// Currency using ISO 4217 code
	Currency Currency `json:"currency"`
}

// NewMoney creates a new Money value object.
//
// Parameters:
//   - amount: Amount in smallest unit (e.g., cents)
//   - currency: ISO 4217 currency code
//
// Returns:
//   - Money: the created Money value object
func NewMoney(amount int64, currency Currency) Money {
	return Money{
		Amount:   amount,
		Currency: currency,
	}
}

// NewMoneyFromFloat creates a new Money from a decimal amount.
//
// Parameters:
//   - amount: Decimal amount (e.g., 19.99)
//   - currency: ISO 4217 currency code
//
// Returns:
//   - Money: the created Money value object
//   - error: ErrNegativeAmount if amount is below zero,
//     ErrAmountOutOfRange if it does not fit in int64 minor units
func NewMoneyFromFloat(amount float64, currency Currency) (Money, error) {
	if amount < 0 {
		return Money{}, ErrNegativeAmount
	}
	minor, err := toMinorUnits(amount * 100)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(minor, currency), nil
}

// Zero returns a zero-value Money in the specified currency.
func Zero(currency Currency) Money {
	return NewMoney(0, currency)
}

// MultiplyFloat multiplies the Money amount by a float factor.
// Used to price a chargeable weight against a per-kg rate.
//
// Parameters:
//   - factor: the multiplication factor as float
//
// Returns:
//   - Money: the multiplied Money value (rounded to nearest cent)
//   - error: ErrAmountOutOfRange if the product does not fit in int64
func (m Money) MultiplyFloat(factor float64) (Money, error) {
	minor, err := toMinorUnits(float64(m.Amount) * factor)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(minor, m.Currency), nil
}

// toMinorUnits rounds v and converts it to int64.
// float64(math.MaxInt64) is 2^63, which is itself out of range.
func toMinorUnits(v float64) (int64, error) {
	v = math.Round(v)
	if math.IsNaN(v) || v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, ErrAmountOutOfRange
	}
	return int64(v), nil
}

// IsZero checks if the Money amount is zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// ToFloat converts the Money amount to a float64 representation.
//
// Returns:
//   - float64: Decimal representation (e.g., 19.99)
func (m Money) ToFloat() float64 {
	return float64(m.Amount) / 100.0
}

// String returns a formatted string representation of the Money.
//
// Returns:
//   - string: Formatted string (e.g., "USD 19.99")
func (m Money) String() string {
	return fmt.Sprintf("%s %.2f", m.Currency, m.ToFloat())
}
