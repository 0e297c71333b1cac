package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SharesOutstandingSource is the provenance label for the shares-outstanding
// constant. It is always "config": the value comes from deployment
// configuration, never from a live fetch.
const SharesOutstandingSource = "config"

// NavEstimate is the result of one successful aggregation run. It is built
// fully populated or not at all; a failed run produces no estimate.
//
// The value approximates NAV per share from holdings weights and live
// prices only. Fund liabilities, cash drag and accrued charges are
// excluded.
type NavEstimate struct {
	Value                   decimal.Decimal `json:"value"`
	Degraded                bool            `json:"degraded"`
	CoveredWeight           decimal.Decimal `json:"coveredWeight"`
	HoldingsSource          string          `json:"holdingsSource"`
	SharesOutstandingSource string          `json:"sharesOutstandingSource"`
	ComputedAt              time.Time       `json:"computedAt"`
}

// ResultValue is the 4-decimal form written to the result artifact.
func (e NavEstimate) ResultValue() string {
	return e.Value.StringFixed(4)
}

// DisplayValue is the coarser 2-decimal form for human-facing output.
func (e NavEstimate) DisplayValue() string {
	return e.Value.StringFixed(2)
}

const (
	RunStatusOK    = "ok"
	RunStatusError = "error"
)

// NavRun is the persisted record of one run, successful or not. Numeric
// fields are stored as fixed-point strings so the recorded value is exactly
// the published one; they are nil for error runs.
type NavRun struct {
	ID                      int64     `json:"id"`
	ComputedAt              time.Time `json:"computedAt"`
	Status                  string    `json:"status"`
	Value                   *string   `json:"value"`
	CoveredWeight           *string   `json:"coveredWeight"`
	Degraded                bool      `json:"degraded"`
	HoldingsSource          string    `json:"holdingsSource"`
	SharesOutstandingSource string    `json:"sharesOutstandingSource"`
	CreatedAt               time.Time `json:"createdAt"`
}
