// Package holdings resolves a validated fund composition from a cascade of
// interchangeable sources: a bundled workbook, the provider's holdings CSV
// endpoint, a scrape of the product page, and a bundled CSV snapshot. Every
// source normalizes to the same two-column schema (ticker, weight) and is
// subjected to the same validation before acceptance.
package holdings

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhagglund/navpulse/internal/models"
)

var (
	// ErrSourceUnavailable marks a single candidate failing: network error,
	// parse error or malformed schema. It advances the cascade.
	ErrSourceUnavailable = errors.New("holdings source unavailable")

	// ErrHoldingsUnavailable is terminal: every candidate failed or was
	// rejected by validation.
	ErrHoldingsUnavailable = errors.New("no holdings source available")
)

// LabelUnavailable is the provenance label reported when the whole cascade
// is exhausted.
const LabelUnavailable = "unavailable"

// Source produces a holdings table or fails. Label identifies the source in
// provenance output.
type Source interface {
	Label() string
	Load(ctx context.Context) ([]models.Holding, error)
}

type Loader struct {
	sources   []Source
	tolerance decimal.Decimal
}

// NewLoader builds a cascade over the given sources, tried in order.
// tolerance bounds |Σweight - 1| for an accepted table.
func NewLoader(tolerance decimal.Decimal, sources ...Source) *Loader {
	return &Loader{sources: sources, tolerance: tolerance}
}

// Load returns the first candidate table that parses and validates, with the
// label of the source that produced it. Candidate failures never abort the
// run; they advance the cascade. Exhaustion returns ErrHoldingsUnavailable
// and the LabelUnavailable label.
func (l *Loader) Load(ctx context.Context) ([]models.Holding, string, error) {
	for _, src := range l.sources {
		hs, err := src.Load(ctx)
		if err == nil {
			err = Validate(hs, l.tolerance)
		}
		if err != nil {
			fmt.Printf("[HOLDINGS] Skipping source %q: %v\n", src.Label(), err)
			continue
		}
		fmt.Printf("[HOLDINGS] Accepted source %q (%d holdings)\n", src.Label(), len(hs))
		return hs, src.Label(), nil
	}
	return nil, LabelUnavailable, fmt.Errorf("%w: all %d candidates failed or were rejected",
		ErrHoldingsUnavailable, len(l.sources))
}
