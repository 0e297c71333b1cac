package marketdata

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhagglund/navpulse/internal/models"
)

// PriceClient abstracts the per-ticker lookup so the fetcher can be tested
// without a live provider.
type PriceClient interface {
	LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

type Fetcher struct {
	client      PriceClient
	concurrency int
}

func NewFetcher(client PriceClient, concurrency int) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{client: client, concurrency: concurrency}
}

// FetchPrices resolves one quote per distinct requested ticker. Lookups run
// on a bounded worker pool; each failure is isolated to its ticker
// (Success=false) and never aborts the batch. The call returns only after
// every outstanding lookup has finished or timed out.
func (f *Fetcher) FetchPrices(ctx context.Context, tickers []string) map[string]models.PriceQuote {
	distinct := dedupe(tickers)

	jobs := make(chan string)
	results := make(chan models.PriceQuote)

	var wg sync.WaitGroup
	workers := f.concurrency
	if workers > len(distinct) {
		workers = len(distinct)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				results <- f.fetchOne(ctx, ticker)
			}
		}()
	}

	go func() {
		for _, t := range distinct {
			jobs <- t
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	quotes := make(map[string]models.PriceQuote, len(distinct))
	failed := 0
	for q := range results {
		quotes[q.Ticker] = q
		if !q.Success {
			failed++
		}
	}

	fmt.Printf("[PRICES] Fetched %d/%d tickers (%d failed)\n",
		len(quotes)-failed, len(distinct), failed)
	return quotes
}

func (f *Fetcher) fetchOne(ctx context.Context, ticker string) models.PriceQuote {
	price, err := f.client.LatestPrice(ctx, ticker)
	if err != nil {
		fmt.Printf("[PRICES] %s: %v\n", ticker, err)
		return models.PriceQuote{Ticker: ticker}
	}
	return models.PriceQuote{Ticker: ticker, Price: price, Success: true}
}

func dedupe(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
