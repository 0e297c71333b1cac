package models

import "github.com/shopspring/decimal"

// Holding is one constituent security of the fund: a ticker symbol and the
// fraction of total fund value it represents, in (0, 1]. Tickers are unique
// within a holdings table and weights sum to 1 within the configured
// tolerance; see holdings.Validate.
type Holding struct {
	Ticker string          `json:"ticker"`
	Weight decimal.Decimal `json:"weight"`
}
