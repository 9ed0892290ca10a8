// Package core holds the ledger domain: the purchase record and its
// sanitization contract, the filter predicate, the weekly aggregation that
// feeds the chart, the edit-session state machine and display formatting.
package core

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Prices are displayed in a single fixed currency; there is no per-record
// currency field.
var gbp = message.NewPrinter(language.BritishEnglish)

// FormatGBP renders a price with en-GB grouping and exactly two fraction
// digits, e.g. 1234.5 -> "£1,234.50".
func FormatGBP(v float64) string {
	return gbp.Sprintf("£%v", number.Decimal(v,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
