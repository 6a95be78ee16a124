package valueobject

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// TrackingNumberPrefix is the carrier prefix of every tracking number.
	TrackingNumberPrefix = "WW"

	// TrackingNumberLength is prefix + body + check digit.
	TrackingNumberLength = len(TrackingNumberPrefix) + TrackingBodyLength + 1

	// TrackingBodyLength is the number of generated digits.
	TrackingBodyLength = 8
)

// Tracking number errors.
var (
	ErrInvalidTrackingNumber = errors.New("invalid tracking number")
	ErrInvalidTrackingBody   = errors.New("tracking number body must be exactly 8 digits")
)

// TrackingNumber is a shipment identifier of the form WW + 8 digits + Luhn check digit.
// Once assigned to a shipment it never changes.
type TrackingNumber string

// NewTrackingNumber assembles a tracking number from an 8 digit body.
//
// Parameters:
//   - body: the 8 generated digits
//
// Returns:
//   - TrackingNumber: prefix + body + check digit
//   - error: ErrInvalidTrackingBody if body is not 8 digits
func NewTrackingNumber(body string) (TrackingNumber, error) {
	if len(body) != TrackingBodyLength || !isDigits(body) {
		return "", ErrInvalidTrackingBody
	}
	// The prefix is letters, so it is dropped by LuhnCheckDigit.
	check := LuhnCheckDigit(TrackingNumberPrefix + body)
	return TrackingNumber(TrackingNumberPrefix + body + strconv.Itoa(check)), nil
}

// ParseTrackingNumber validates a raw value and returns it as a TrackingNumber.
// Unlike ValidateTrackingNumber it also rejects non-digits after the prefix.
//
// Returns:
//   - TrackingNumber: the validated tracking number
//   - error: ErrInvalidTrackingNumber if the format or check digit is wrong
func ParseTrackingNumber(value string) (TrackingNumber, error) {
	value = strings.TrimSpace(value)
	if !ValidateTrackingNumber(value) || !isDigits(value[len(TrackingNumberPrefix):]) {
		return "", ErrInvalidTrackingNumber
	}
	return TrackingNumber(value), nil
}

// ValidateTrackingNumber checks length, prefix and check digit.
// It never panics.
func ValidateTrackingNumber(value string) bool {
	if len(value) != TrackingNumberLength || !strings.HasPrefix(value, TrackingNumberPrefix) {
		return false
	}
	last := value[TrackingNumberLength-1]
	if last < '0' || last > '9' {
		return false
	}
	return LuhnCheckDigit(value[:TrackingNumberLength-1]) == int(last-'0')
}

// LuhnCheckDigit returns the Luhn check digit for the digits in s.
// Non-digit characters are discarded; an empty digit stream yields 0.
func LuhnCheckDigit(s string) int {
	sum := 0
	double := true
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10 - sum%10) % 10
}

// String implements fmt.Stringer.
func (t TrackingNumber) String() string {
	return string(t)
}

// IsZero reports whether no tracking number has been assigned.
func (t TrackingNumber) IsZero() bool {
	return t == ""
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
