package models

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places amounts are stored with.
const MoneyScale = 2

func init() {
	// Amounts are rendered as JSON numbers, the way clients of the API expect them.
	decimal.MarshalJSONWithoutQuotes = true
}

// WholeCents reports whether d needs no more than MoneyScale decimal places.
func WholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale))
}
