// market/instruments.go
package market

import (
	"math"
	"strings"
)

type InstrumentMeta struct {
	Name          string
	BaseCurrency  string
	QuoteCurrency string
	PipLocation   int
	// BasePrice seeds the synthetic price walk.
	BasePrice float64
}

var Instruments = map[string]InstrumentMeta{
	"EUR_USD": {
		Name:          "EUR_USD",
		BaseCurrency:  "EUR",
		QuoteCurrency: "USD",
		PipLocation:   -4,
		BasePrice:     1.0850,
	},
	"GBP_USD": {
		Name:          "GBP_USD",
		BaseCurrency:  "GBP",
		QuoteCurrency: "USD",
		PipLocation:   -4,
		BasePrice:     1.2650,
	},
	"USD_JPY": {
		Name:          "USD_JPY",
		BaseCurrency:  "USD",
		QuoteCurrency: "JPY",
		PipLocation:   -2,
		BasePrice:     150.25,
	},
	"AUD_USD": {
		Name:          "AUD_USD",
		BaseCurrency:  "AUD",
		QuoteCurrency: "USD",
		PipLocation:   -4,
		BasePrice:     0.6550,
	},
}

const defaultPipLocation = -4

// NormalizePair maps "EUR/USD", "eur-usd" and "EUR_USD" to "EUR_USD".
func NormalizePair(pair string) string {
	p := strings.ToUpper(strings.TrimSpace(pair))
	p = strings.NewReplacer("/", "_", "-", "_", " ", "").Replace(p)
	if len(p) == 6 && !strings.Contains(p, "_") {
		p = p[:3] + "_" + p[3:]
	}
	return p
}

// Lookup returns the metadata for pair, or a generic 4-decimal instrument
// with a base price of 1.0 when the pair is unknown.
func Lookup(pair string) (InstrumentMeta, bool) {
	name := NormalizePair(pair)
	if meta, ok := Instruments[name]; ok {
		return meta, true
	}
	return InstrumentMeta{
		Name:        name,
		PipLocation: defaultPipLocation,
		BasePrice:   1.0,
	}, false
}

// PipSize returns the price increment of one pip for pair.
func PipSize(pair string) float64 {
	meta, _ := Lookup(pair)
	return math.Pow10(meta.PipLocation)
}
