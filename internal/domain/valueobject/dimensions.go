package valueobject

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultMaxDimension is the largest accepted length, width or height (cm).
	DefaultMaxDimension = 300.0

	// DefaultDivisor is the air-freight volumetric divisor (cm³ per kg).
	DefaultDivisor = 5000.0

	// dimensionSeparator is the separator every accepted separator is normalized to.
	dimensionSeparator = "x"
)

// Dimension errors define validation failures for dimension input.
var (
	ErrInvalidDimensions = errors.New("dimensions must be three positive numbers in the form L x W x H")
	ErrDimensionTooLarge = errors.New("dimension exceeds the maximum allowed size")
)

// separatorReplacer maps every accepted separator onto dimensionSeparator.
var separatorReplacer = strings.NewReplacer("×", dimensionSeparator, "*", dimensionSeparator, "X", dimensionSeparator)

// Dimensions represents the physical dimensions for shipping calculations.
// All measurements are in centimeters.
type Dimensions struct {
	// Length in centimeters.
	Length float64 `json:"length"`

	// Width in centimeters.
	Width float64 `json:"width"`

	// Height in centimeters.
	Height float64 `json:"height"`
}

// NewDimensions creates a new Dimensions value object.
//
// Parameters:
//   - length: Length in centimeters
//   - width: Width in centimeters
//   - height: Height in centimeters
//
// Returns:
//   - Dimensions: new Dimensions value object
func NewDimensions(length, width, height float64) Dimensions {
	return Dimensions{
		Length: length,
		Width:  width,
		Height: height,
	}
}

// ParseDimensions strictly parses free-form "L x W x H" text.
// Accepted separators are x, X, × and *; any other character apart from
// digits, '.', and whitespace is discarded before splitting.
//
// Parameters:
//   - input: raw dimension text (e.g., "100 x 50 x 30 cm")
//   - maxDimension: largest accepted value per axis; <= 0 uses DefaultMaxDimension
//
// Returns:
//   - Dimensions: the parsed dimensions
//   - error: ErrInvalidDimensions if malformed or non-positive,
//     ErrDimensionTooLarge if any axis exceeds maxDimension
func ParseDimensions(input string, maxDimension float64) (Dimensions, error) {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if strings.TrimSpace(input) == "" {
		return Dimensions{}, ErrInvalidDimensions
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == 'x', r == 'X', r == '×', r == '*':
			return r
		case r == ' ', r == '\t', r == '\n', r == '\r':
			return r
		}
		return -1
	}, input)

	parts := strings.Split(separatorReplacer.Replace(cleaned), dimensionSeparator)
	if len(parts) != 3 {
		return Dimensions{}, ErrInvalidDimensions
	}

	values := make([]float64, 3)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v <= 0 {
			return Dimensions{}, ErrInvalidDimensions
		}
		if v > maxDimension {
			return Dimensions{}, ErrDimensionTooLarge
		}
		values[i] = v
	}

	return NewDimensions(values[0], values[1], values[2]), nil
}

// Volume calculates the volume in cubic centimeters.
//
// Returns:
//   - float64: volume in cm³
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// CBM returns the volume in cubic meters, rounded to 6 decimals.
func (d Dimensions) CBM() float64 {
	return roundTo((d.Length/100)*(d.Width/100)*(d.Height/100), 6)
}

// VolumetricWeight calculates the volumetric weight for shipping.
// The result is rounded to 2 decimals; a non-positive divisor yields 0.
//
// Parameters:
//   - divisor: carrier volumetric divisor (e.g., 5000 for air freight)
//
// Returns:
//   - float64: volumetric weight in kg
func (d Dimensions) VolumetricWeight(divisor float64) float64 {
	if divisor <= 0 {
		return 0
	}
	return roundTo(d.Volume()/divisor, 2)
}

// IsEmpty checks if all dimensions are zero.
//
// Returns:
//   - bool: true if all dimensions are zero
func (d Dimensions) IsEmpty() bool {
	return d.Length == 0 && d.Width == 0 && d.Height == 0
}

// String returns the canonical "L x W x H" form using the original values.
//
// Returns:
//   - string: formatted dimensions (e.g., "100 x 50 x 30")
func (d Dimensions) String() string {
	return formatFloat(d.Length) + " x " + formatFloat(d.Width) + " x " + formatFloat(d.Height)
}

// CalculateCBM computes cubic meters from "L x W x H" centimeter text.
// Unlike ParseDimensions it never fails: unparseable input yields 0 so a
// shipment can still be recorded with a zeroed derived value.
func CalculateCBM(dimensions string) float64 {
	d, ok := parseLenient(dimensions)
	if !ok {
		return 0
	}
	return d.CBM()
}

// CalculateDimensionalWeight computes (L×W×H)/divisor in kg, rounded to 2
// decimals. Unparseable input or a non-positive divisor yields 0.
func CalculateDimensionalWeight(dimensions string, divisor float64) float64 {
	d, ok := parseLenient(dimensions)
	if !ok {
		return 0
	}
	return d.VolumetricWeight(divisor)
}

// parseLenient splits on 'x' (case-insensitive) and requires exactly three
// finite numbers. Sign is not checked here.
func parseLenient(dimensions string) (Dimensions, bool) {
	if strings.TrimSpace(dimensions) == "" {
		return Dimensions{}, false
	}

	parts := strings.Split(strings.ToLower(dimensions), dimensionSeparator)
	if len(parts) != 3 {
		return Dimensions{}, false
	}

	var values [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return Dimensions{}, false
		}
		values[i] = v
	}
	return NewDimensions(values[0], values[1], values[2]), true
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
