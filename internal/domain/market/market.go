// Package market defines market identifiers and symbol prefix rules shared
// across providers.
package market

import "strings"

// Code identifies the exchange region a symbol trades in.
type Code string

const (
	CN Code = "CN" // mainland A-shares
	HK Code = "HK"
	US Code = "US"
)

// IsDomestic reports whether the market supports capital-flow data.
// The EastMoney flow endpoint only covers mainland symbols.
func (c Code) IsDomestic() bool {
	return c == CN
}

// CNExchange returns the CN exchange code (SH / SZ / BJ) for a symbol.
//
// Rules:
//   - BJ: 920xxx, 83xxxx, 87xxxx, 88xxxx
//   - SH: 5xxxxx, 6xxxxx, 900xxx
//   - SZ: everything else (default)
func CNExchange(symbol string) string {
	sym := strings.TrimSpace(symbol)
	switch {
	case strings.HasPrefix(sym, "920"), strings.HasPrefix(sym, "83"),
		strings.HasPrefix(sym, "87"), strings.HasPrefix(sym, "88"):
		return "BJ"
	case strings.HasPrefix(sym, "5"), strings.HasPrefix(sym, "6"),
		strings.HasPrefix(sym, "900"):
		return "SH"
	default:
		return "SZ"
	}
}

// VendorSymbol converts a plain symbol to the prefixed form used by the
// Tencent endpoints: sh600519 / sz000001 / bj920001 / hk00700 / usAAPL.
func VendorSymbol(symbol string, code Code) string {
	switch code {
	case HK:
		return "hk" + symbol
	case US:
		return "us" + symbol
	default:
		return strings.ToLower(CNExchange(symbol)) + symbol
	}
}
