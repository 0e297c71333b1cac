package models

import "github.com/shopspring/decimal"

// PriceQuote is the outcome of a single price lookup. A failed lookup is
// reported with Success=false and a zero Price; zero is never a real price.
type PriceQuote struct {
	Ticker  string          `json:"ticker"`
	Price   decimal.Decimal `json:"price"`
	Success bool            `json:"success"`
}
