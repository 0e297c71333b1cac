// Package engine drives one NAV estimation run to completion: resolve
// holdings, fetch prices, aggregate, publish.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhagglund/navpulse/internal/models"
	"github.com/jhagglund/navpulse/internal/nav"
	"github.com/jhagglund/navpulse/internal/report"
)

// HoldingsLoader resolves a validated holdings table and its provenance
// label (see holdings.Loader).
type HoldingsLoader interface {
	Load(ctx context.Context) ([]models.Holding, string, error)
}

// PriceFetcher resolves one quote per distinct ticker (see
// marketdata.Fetcher).
type PriceFetcher interface {
	FetchPrices(ctx context.Context, tickers []string) map[string]models.PriceQuote
}

type Engine struct {
	loader   HoldingsLoader
	fetcher  PriceFetcher
	reporter report.Reporter

	sharesOutstanding decimal.Decimal
	minCoverage       decimal.Decimal
}

func New(loader HoldingsLoader, fetcher PriceFetcher, reporter report.Reporter,
	sharesOutstanding, minCoverage decimal.Decimal) *Engine {
	return &Engine{
		loader:            loader,
		fetcher:           fetcher,
		reporter:          reporter,
		sharesOutstanding: sharesOutstanding,
		minCoverage:       minCoverage,
	}
}

// Run executes one run. A fatal error publishes the error outcome before
// returning, so the artifacts always reflect the run that just happened.
// No state survives between runs.
func (e *Engine) Run(ctx context.Context) error {
	start := time.Now()
	fmt.Printf("[ENGINE] Run started at %s\n", start.UTC().Format(time.RFC3339))

	holdings, label, err := e.loader.Load(ctx)
	if err != nil {
		e.publish(ctx, report.Failure(label, err))
		return fmt.Errorf("load holdings: %w", err)
	}

	logTopHoldings(holdings, 10)

	tickers := make([]string, len(holdings))
	for i, h := range holdings {
		tickers[i] = h.Ticker
	}
	quotes := e.fetcher.FetchPrices(ctx, tickers)

	est, err := nav.Compute(holdings, quotes, nav.Params{
		SharesOutstanding: e.sharesOutstanding,
		MinCoverage:       e.minCoverage,
		HoldingsSource:    label,
	})
	if err != nil {
		e.publish(ctx, report.Failure(label, err))
		return fmt.Errorf("aggregate: %w", err)
	}

	e.publish(ctx, report.Success(est))

	fmt.Printf("[ENGINE] NAV per share: %s (coverage %s, source %q, degraded=%v)\n",
		est.DisplayValue(), est.CoveredWeight.Mul(decimal.NewFromInt(100)).StringFixed(1)+"%",
		est.HoldingsSource, est.Degraded)
	fmt.Printf("[ENGINE] Implied net assets: %s (shares outstanding from %s)\n",
		est.Value.Mul(e.sharesOutstanding).StringFixed(0), est.SharesOutstandingSource)
	fmt.Printf("[ENGINE] Run finished in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func (e *Engine) publish(ctx context.Context, o report.Outcome) {
	if err := e.reporter.Publish(ctx, o); err != nil {
		fmt.Printf("[ENGINE] Publish failed: %v\n", err)
	}
}

func logTopHoldings(hs []models.Holding, n int) {
	sorted := make([]models.Holding, len(hs))
	copy(sorted, hs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight.GreaterThan(sorted[j].Weight)
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	fmt.Printf("[ENGINE] Top %d holdings by weight:\n", n)
	for _, h := range sorted[:n] {
		fmt.Printf("  %-8s %s%%\n", h.Ticker, h.Weight.Mul(decimal.NewFromInt(100)).StringFixed(2))
	}
}
