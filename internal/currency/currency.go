package currency

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultMinorUnits is used for unknown currencies and unsupported minor-unit counts.
const DefaultMinorUnits = 2

var (
	// ErrInvalidAmount is returned when display text cannot be parsed as a finite number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountOutOfRange is returned when an amount does not fit in int64 minor units.
	ErrAmountOutOfRange = errors.New("amount out of range")
)

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Currency is the metadata needed to convert between storage and display units.
type Currency struct {
	Code       string
	MinorUnits int
}

// Supported reports whether n is a minor-unit count the converter understands.
func Supported(n int) bool {
	return n == 0 || n == 2 || n == 3
}

func normalize(minorUnits int) int32 {
	if !Supported(minorUnits) {
		return DefaultMinorUnits
	}
	return int32(minorUnits)
}

// ToStorage converts a display amount to integer minor units, rounding half away
// from zero. 2.99 with 2 minor units yields exactly 299. Amounts ToStorageChecked
// rejects convert to 0.
func ToStorage(display float64, minorUnits int) int64 {
	minor, err := ToStorageChecked(display, minorUnits)
	if err != nil {
		return 0
	}
	return minor
}

// ToStorageChecked is ToStorage for untrusted input. NaN and infinities return
// ErrInvalidAmount; amounts beyond int64 minor units return ErrAmountOutOfRange.
func ToStorageChecked(display float64, minorUnits int) (int64, error) {
	if math.IsNaN(display) || math.IsInf(display, 0) {
		return 0, ErrInvalidAmount
	}
	if display == 0 {
		return 0, nil
	}
	shifted := decimal.NewFromFloat(display).Shift(normalize(minorUnits)).Round(0)
	if shifted.GreaterThan(maxMinor) || shifted.LessThan(minMinor) {
		return 0, ErrAmountOutOfRange
	}
	return shifted.IntPart(), nil
}

// ToStorageOpt is ToStorage for an optional display amount; nil converts to 0.
func ToStorageOpt(display *float64, minorUnits int) int64 {
	if display == nil {
		return 0
	}
	return ToStorage(*display, minorUnits)
}

// FromStorage converts integer minor units back to a display amount.
func FromStorage(stored int64, minorUnits int) float64 {
	if stored == 0 {
		return 0
	}
	f, _ := decimal.New(stored, -normalize(minorUnits)).Float64()
	return f
}

// ParseDisplay parses user-entered amount text. A single comma is accepted as the
// decimal separator.
func ParseDisplay(text string) (float64, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return v, nil
}

// Format renders stored minor units as a fixed-point string, e.g. 1200 -> "12.00".
func Format(stored int64, c Currency) string {
	return decimal.New(stored, -normalize(c.MinorUnits)).StringFixed(normalize(c.MinorUnits))
}
