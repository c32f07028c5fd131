package currency

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrUnsupportedMinorUnits is returned when registering a currency whose minor-unit
// count is not 0, 2 or 3.
var ErrUnsupportedMinorUnits = errors.New("unsupported minor units")

// Registry maps ISO 4217 codes to currency metadata.
type Registry struct {
	mu         sync.RWMutex
	currencies map[string]Currency
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		currencies: make(map[string]Currency),
	}
}

// NewDefaultRegistry creates a registry seeded with commonly used currencies.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, code := range []string{"USD", "EUR", "GBP", "AUD", "CAD", "CHF", "NZD", "SEK", "NOK", "DKK", "PLN", "CZK", "MXN", "BRL", "ZAR", "INR", "SGD", "HKD", "AED", "CNY", "TRY"} {
		r.currencies[code] = Currency{Code: code, MinorUnits: 2}
	}
	for _, code := range []string{"JPY", "KRW", "VND", "CLP", "ISK", "UGX", "XOF", "XAF"} {
		r.currencies[code] = Currency{Code: code, MinorUnits: 0}
	}
	for _, code := range []string{"BHD", "KWD", "OMR", "JOD", "TND", "IQD", "LYD"} {
		r.currencies[code] = Currency{Code: code, MinorUnits: 3}
	}
	return r
}

// Register adds or replaces a currency.
func (r *Registry) Register(c Currency) error {
	if !Supported(c.MinorUnits) {
		return ErrUnsupportedMinorUnits
	}
	code := strings.ToUpper(strings.TrimSpace(c.Code))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currencies[code] = Currency{Code: code, MinorUnits: c.MinorUnits}
	return nil
}

// Lookup returns the currency registered under code. Unknown codes never fail:
// they resolve to DefaultMinorUnits so bad metadata cannot break pricing.
func (r *Registry) Lookup(code string) Currency {
	code = strings.ToUpper(strings.TrimSpace(code))
	r.mu.RLock()
	c, ok := r.currencies[code]
	r.mu.RUnlock()
	if !ok {
		return Currency{Code: code, MinorUnits: DefaultMinorUnits}
	}
	return c
}

// Has reports whether code is registered.
func (r *Registry) Has(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.currencies[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Codes returns the sorted list of registered codes.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.currencies))
	for code := range r.currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
