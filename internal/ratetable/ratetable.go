// Package ratetable resolves a postal-code prefix to the sales-tax rate
// and title fee for that jurisdiction.
package ratetable

import "github.com/shopspring/decimal"

// Rates is a jurisdiction's tax rate and title fee. TaxRate is a
// percent-of-100 value (8.25 means 8.25%).
type Rates struct {
	TaxRate  decimal.Decimal
	TitleFee decimal.Decimal
}

// Table maps two-character postal prefixes to Rates, with a fallback pair
// for unmapped prefixes. Tables are plain values built from configuration;
// there is no package-level mutable state.
type Table struct {
	prefixes map[string]Rates
	fallback Rates
}

// New builds a Table from a prefix map and a fallback.
func New(prefixes map[string]Rates, fallback Rates) Table {
	m := make(map[string]Rates, len(prefixes))
	for k, v := range prefixes {
		m[k] = v
	}
	return Table{prefixes: m, fallback: fallback}
}

// Resolve returns the rates for a postal prefix, or the fallback on a
// miss. It never fails.
func (t Table) Resolve(postalPrefix string) Rates {
	if r, ok := t.prefixes[postalPrefix]; ok {
		return r
	}
	return t.fallback
}

// Fallback returns the table's default rates.
func (t Table) Fallback() Rates {
	return t.fallback
}

// Prefix returns the first two characters of a postal code, or the whole
// code if shorter.
func Prefix(postalCode string) string {
	if len(postalCode) < 2 {
		return postalCode
	}
	return postalCode[:2]
}

// DefaultTable returns the built-in jurisdiction table: major metro
// prefixes for CA, TX, FL, NY, and IL, with a 7% / $75 fallback.
func DefaultTable() Table {
	rates := func(taxRate, titleFee string) Rates {
		return Rates{
			TaxRate:  decimal.RequireFromString(taxRate),
			TitleFee: decimal.RequireFromString(titleFee),
		}
	}

	prefixes := make(map[string]Rates)

	// California
	for _, p := range []string{"90", "91", "92", "93", "94", "95"} {
		prefixes[p] = rates("8.25", "23")
	}
	// Texas
	for _, p := range []string{"75", "76", "77", "78", "79"} {
		prefixes[p] = rates("8.25", "33")
	}
	// Florida
	for _, p := range []string{"32", "33", "34"} {
		prefixes[p] = rates("6.00", "77.25")
	}
	// New York
	for _, p := range []string{"10", "11", "12", "13", "14"} {
		prefixes[p] = rates("8.00", "50")
	}
	// Illinois
	for _, p := range []string{"60", "61", "62"} {
		prefixes[p] = rates("6.25", "155")
	}

	return New(prefixes, rates("7.00", "75"))
}
