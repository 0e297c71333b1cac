package holdings

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhagglund/navpulse/internal/models"
)

var one = decimal.NewFromInt(1)

// Validate applies the acceptance rules every candidate table must pass:
// non-empty, non-empty unique tickers, each weight in (0, 1], and
// |Σweight - 1| within tolerance. A table that fails here is treated exactly
// like a source that failed to load.
func Validate(hs []models.Holding, tolerance decimal.Decimal) error {
	if len(hs) == 0 {
		return fmt.Errorf("empty holdings table")
	}

	seen := make(map[string]struct{}, len(hs))
	sum := decimal.Zero
	for i, h := range hs {
		if h.Ticker == "" {
			return fmt.Errorf("row %d: empty ticker", i)
		}
		if _, dup := seen[h.Ticker]; dup {
			return fmt.Errorf("duplicate ticker %q", h.Ticker)
		}
		seen[h.Ticker] = struct{}{}

		if !h.Weight.IsPositive() {
			return fmt.Errorf("ticker %s: weight %s is not positive", h.Ticker, h.Weight)
		}
		if h.Weight.GreaterThan(one) {
			return fmt.Errorf("ticker %s: weight %s exceeds 1", h.Ticker, h.Weight)
		}
		sum = sum.Add(h.Weight)
	}

	if diff := sum.Sub(one).Abs(); diff.GreaterThan(tolerance) {
		return fmt.Errorf("weight sum %s deviates from 1 by %s (tolerance %s)", sum, diff, tolerance)
	}
	return nil
}
