package currency_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricebook/pricebook/internal/currency"
)

func TestToStorage_Rounds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		display    float64
		minorUnits int
		want       int64
	}{
		{"cents", 2.99, 2, 299},
		{"float drift", 0.29, 2, 29},
		{"large cents", 19.99, 2, 1999},
		{"whole yen", 1500, 0, 1500},
		{"yen rounds", 1500.5, 0, 1501},
		{"fils", 1.234, 3, 1234},
		{"zero", 0, 2, 0},
		{"half cent rounds up", 10.005, 2, 1001},
		{"unsupported falls back to two", 12.34, 5, 1234},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, currency.ToStorage(tt.display, tt.minorUnits))
		})
	}
}

func TestToStorageChecked(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		display float64
		want    int64
		wantErr error
	}{
		{"in range", 12.34, 1234, nil},
		{"NaN", math.NaN(), 0, currency.ErrInvalidAmount},
		{"positive infinity", math.Inf(1), 0, currency.ErrInvalidAmount},
		{"negative infinity", math.Inf(-1), 0, currency.ErrInvalidAmount},
		{"1e300", 1e300, 0, currency.ErrAmountOutOfRange},
		{"twenty digits", 99999999999999999999, 0, currency.ErrAmountOutOfRange},
		{"just past int64 once shifted", 1e17, 0, currency.ErrAmountOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := currency.ToStorageChecked(tt.display, 2)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.NotPanics(t, func() {
		assert.Equal(t, int64(0), currency.ToStorage(math.NaN(), 2))
		assert.Equal(t, int64(0), currency.ToStorage(1e300, 2))
	})
}

func TestToStorageOpt_NilIsZero(t *testing.T) {
	t.Parallel()
	assert.Equal(t, int64(0), currency.ToStorageOpt(nil, 2))

	v := 12.5
	assert.Equal(t, int64(1250), currency.ToStorageOpt(&v, 2))
}

func TestFromStorage_RoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		display    float64
		minorUnits int
	}{
		{0, 0}, {0, 2}, {0, 3},
		{10, 0}, {12345, 0},
		{2.99, 2}, {0.01, 2}, {10.1, 2}, {999999.99, 2},
		{1.234, 3}, {0.001, 3}, {42.5, 3},
	}
	for _, tt := range tests {
		stored := currency.ToStorage(tt.display, tt.minorUnits)
		assert.Equal(t, tt.display, currency.FromStorage(stored, tt.minorUnits),
			"round trip of %v with %d minor units", tt.display, tt.minorUnits)
	}
}

func TestParseDisplay(t *testing.T) {
	t.Parallel()
	tests := []struct {
		text    string
		want    float64
		wantErr bool
	}{
		{"12.50", 12.5, false},
		{" 7 ", 7, false},
		{"12,50", 12.5, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1,000.50", 0, true},
		{"-3", -3, false},
		{"NaN", 0, true},
		{"nan", 0, true},
		{"Inf", 0, true},
		{"-Infinity", 0, true},
		{"1e300", 1e300, false},
		{"99999999999999999999", 1e20, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got, err := currency.ParseDisplay(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, currency.ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "12.00", currency.Format(1200, currency.Currency{Code: "USD", MinorUnits: 2}))
	assert.Equal(t, "1200", currency.Format(1200, currency.Currency{Code: "JPY", MinorUnits: 0}))
	assert.Equal(t, "1.200", currency.Format(1200, currency.Currency{Code: "KWD", MinorUnits: 3}))
}

func TestRegistry_LookupFailsSafe(t *testing.T) {
	t.Parallel()
	r := currency.NewDefaultRegistry()

	assert.Equal(t, 2, r.Lookup("usd").MinorUnits)
	assert.Equal(t, 0, r.Lookup("JPY").MinorUnits)
	assert.Equal(t, 3, r.Lookup("KWD").MinorUnits)

	unknown := r.Lookup("XYZ")
	assert.Equal(t, "XYZ", unknown.Code)
	assert.Equal(t, currency.DefaultMinorUnits, unknown.MinorUnits)

	assert.Equal(t, currency.DefaultMinorUnits, r.Lookup("").MinorUnits)
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()
	r := currency.NewRegistry()

	require.NoError(t, r.Register(currency.Currency{Code: "xts", MinorUnits: 3}))
	assert.True(t, r.Has("XTS"))
	assert.Equal(t, 3, r.Lookup("XTS").MinorUnits)
	assert.Equal(t, []string{"XTS"}, r.Codes())

	err := r.Register(currency.Currency{Code: "BAD", MinorUnits: 4})
	assert.ErrorIs(t, err, currency.ErrUnsupportedMinorUnits)
	assert.False(t, r.Has("BAD"))
}
