package risk

import "strings"

// instrumentMeta holds per-instrument pip metadata: the currency value of
// one pip for a standard lot, and the pip size in price terms.
type instrumentMeta struct {
	pipValue float64
	pipSize  float64
}

// Pip values assume a USD account and standard lots. JPY-quoted pairs use a
// two-decimal pip.
var instruments = map[string]instrumentMeta{
	"EUR/USD": {pipValue: 10, pipSize: 0.0001},
	"GBP/USD": {pipValue: 10, pipSize: 0.0001},
	"AUD/USD": {pipValue: 10, pipSize: 0.0001},
	"NZD/USD": {pipValue: 10, pipSize: 0.0001},
	"USD/CAD": {pipValue: 7.5, pipSize: 0.0001},
	"USD/CHF": {pipValue: 11, pipSize: 0.0001},
	"USD/JPY": {pipValue: 6.8, pipSize: 0.01},
	"EUR/JPY": {pipValue: 6.8, pipSize: 0.01},
	"GBP/JPY": {pipValue: 6.8, pipSize: 0.01},
	"XAU/USD": {pipValue: 10, pipSize: 0.1},
}

const (
	defaultPipValue = 10
	defaultPipSize  = 0.0001
)

// PipValue returns the pip value for an instrument, defaulting to 10 for
// unknown instruments.
func PipValue(instrument string) float64 {
	if meta, ok := instruments[normalizeSymbol(instrument)]; ok {
		return meta.pipValue
	}
	return defaultPipValue
}

// PipSize returns the pip size in price terms for an instrument.
func PipSize(instrument string) float64 {
	if meta, ok := instruments[normalizeSymbol(instrument)]; ok {
		return meta.pipSize
	}
	return defaultPipSize
}

// normalizeSymbol accepts both "EUR/USD" and "EUR_USD" spellings.
func normalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "_", "/")
}
