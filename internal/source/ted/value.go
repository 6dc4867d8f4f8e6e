package ted

import (
	"sort"
	"strconv"
	"strings"
)

var knownCurrencies = []string{"EUR", "USD", "GBP", "PLN", "CZK", "HUF", "RON", "BGN", "HRK", "DKK", "SEK"}

var currencySymbols = []string{"€", "$", "£", "EUR", "USD", "GBP"}

// extractAmount digs a numeric amount out of whatever shape a TED value
// field takes: a bare number, a single-element list, a dict wrapper, or a
// string with thousands separators and currency markers. Unparseable input
// yields nil, never an error.
func extractAmount(v interface{}) *float64 {
	switch v := v.(type) {
	case float64:
		return &v
	case []interface{}:
		if len(v) > 0 {
			return extractAmount(v[0])
		}
	case map[string]interface{}:
		for _, key := range []string{"value", "amount", "val"} {
			if inner, ok := v[key]; ok {
				return extractAmount(inner)
			}
		}
		// No known key; probe remaining values for a non-zero number,
		// keys in sorted order to keep the result deterministic.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if result := extractAmount(v[k]); result != nil && *result != 0 {
				return result
			}
		}
	case string:
		cleaned := strings.ReplaceAll(v, ",", "")
		cleaned = strings.ReplaceAll(cleaned, " ", "")
		for _, sym := range currencySymbols {
			cleaned = strings.ReplaceAll(cleaned, sym, "")
		}
		if cleaned == "" {
			return nil
		}
		if amount, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return &amount
		}
	}
	return nil
}

// extractCurrency resolves the ISO 4217 code with the same shape tolerance
// as extractAmount. It returns nil when no code can be determined; the
// caller applies the EUR default.
func extractCurrency(v interface{}) *string {
	switch v := v.(type) {
	case []interface{}:
		if len(v) > 0 {
			return extractCurrency(v[0])
		}
	case map[string]interface{}:
		for _, key := range []string{"currency", "cur", "curr"} {
			if inner, ok := v[key]; ok {
				if s, ok := inner.(string); ok {
					code := strings.ToUpper(s)
					return &code
				}
				return nil
			}
		}
	case string:
		upper := strings.ToUpper(v)
		for _, code := range knownCurrencies {
			if strings.Contains(upper, code) {
				code := code
				return &code
			}
		}
	}
	return nil
}
