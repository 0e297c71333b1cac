// Package marketdata retrieves the latest traded price per ticker from the
// public chart API and fans the lookups out with bounded parallelism.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhagglund/navpulse/internal/httputil"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// ErrPriceUnavailable marks a single failed ticker lookup: unknown symbol,
// provider error or a non-positive price. It never aborts a batch.
var ErrPriceUnavailable = errors.New("price unavailable")

type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

// NewClient builds a price client. An empty baseURL selects the public
// endpoint; tests point it at a local server.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httputil.NewClient(timeout),
		retry: httputil.RetryConfig{
			// One retry per ticker for transient failures.
			MaxAttempts: 2,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    2 * time.Second,
		},
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// LatestPrice returns the latest traded price for one ticker.
func (c *Client) LatestPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d",
		c.baseURL, url.PathEscape(ticker))

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		return httputil.NewRequest(ctx, endpoint)
	})
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("quote %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("quote %s: %w: status %d", ticker, ErrPriceUnavailable, resp.StatusCode)
	}

	var data chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return decimal.Decimal{}, fmt.Errorf("quote %s: decode: %w", ticker, err)
	}

	if data.Chart.Error != nil {
		return decimal.Decimal{}, fmt.Errorf("quote %s: %w: %s", ticker, ErrPriceUnavailable, data.Chart.Error.Description)
	}
	if len(data.Chart.Result) == 0 {
		return decimal.Decimal{}, fmt.Errorf("quote %s: %w: empty result", ticker, ErrPriceUnavailable)
	}

	price := data.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return decimal.Decimal{}, fmt.Errorf("quote %s: %w: invalid price %f", ticker, ErrPriceUnavailable, price)
	}

	return decimal.NewFromFloat(price), nil
}
