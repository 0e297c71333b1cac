// Package nav aggregates holdings weights and fetched prices into a single
// per-share NAV estimate.
package nav

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhagglund/navpulse/internal/config"
	"github.com/jhagglund/navpulse/internal/models"
)

// ErrInsufficientData is terminal: the priced fraction of the fund fell
// below the acceptance threshold, so no honest estimate exists.
var ErrInsufficientData = errors.New("insufficient price coverage")

// internalPlaces is the precision of the stored estimate; the display form
// is coarser (see models.NavEstimate.DisplayValue).
const internalPlaces = 4

type Params struct {
	// SharesOutstanding is a deployment constant carried for provenance and
	// scale reporting; it is never fetched at runtime.
	SharesOutstanding decimal.Decimal
	// MinCoverage is the smallest priced weight fraction an estimate may be
	// built from, in (0, 1].
	MinCoverage decimal.Decimal
	// HoldingsSource is the provenance label of the accepted holdings table.
	HoldingsSource string
}

// Compute produces the NAV estimate from an accepted holdings table and a
// quote per ticker.
//
// Covered weight is the summed weight of holdings with a successful quote
// and covered value the weight-price products over the same set. The
// estimate is coveredValue/coveredWeight: a linear extrapolation that
// assumes the unpriced slice behaves like the covered average, and reduces
// to Σ weight·price exactly at full coverage. Liabilities, cash and accrued
// charges are outside the model.
//
// Identical inputs yield a bit-identical value: summation follows the
// holdings order and all arithmetic is decimal.
func Compute(holdings []models.Holding, quotes map[string]models.PriceQuote, p Params) (models.NavEstimate, error) {
	if !p.SharesOutstanding.IsPositive() {
		return models.NavEstimate{}, fmt.Errorf("%w: shares outstanding %s must be positive",
			config.ErrConfiguration, p.SharesOutstanding)
	}
	if !p.MinCoverage.IsPositive() || p.MinCoverage.GreaterThan(decimal.NewFromInt(1)) {
		return models.NavEstimate{}, fmt.Errorf("%w: minimum coverage %s must be in (0, 1]",
			config.ErrConfiguration, p.MinCoverage)
	}

	coveredWeight := decimal.Zero
	coveredValue := decimal.Zero
	missing := 0
	for _, h := range holdings {
		q, ok := quotes[h.Ticker]
		if !ok || !q.Success {
			missing++
			continue
		}
		coveredWeight = coveredWeight.Add(h.Weight)
		coveredValue = coveredValue.Add(h.Weight.Mul(q.Price))
	}

	if coveredWeight.LessThan(p.MinCoverage) {
		return models.NavEstimate{}, fmt.Errorf("%w: covered weight %s below minimum %s (%d of %d holdings unpriced)",
			ErrInsufficientData, coveredWeight, p.MinCoverage, missing, len(holdings))
	}

	value := coveredValue.Div(coveredWeight).Round(internalPlaces)

	return models.NavEstimate{
		Value:                   value,
		Degraded:                missing > 0,
		CoveredWeight:           coveredWeight,
		HoldingsSource:          p.HoldingsSource,
		SharesOutstandingSource: models.SharesOutstandingSource,
		ComputedAt:              time.Now().UTC(),
	}, nil
}
