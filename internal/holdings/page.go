package holdings

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jhagglund/navpulse/internal/httputil"
	"github.com/jhagglund/navpulse/internal/models"
)

// PageSource scrapes the holdings table from the fund's product page. The
// table is found by its header cells rather than CSS classes, since the
// provider renames classes more often than column titles.
type PageSource struct {
	url        string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewPageSource(url string, timeout time.Duration) *PageSource {
	return &PageSource{
		url:        url,
		httpClient: httputil.NewClient(timeout),
		retry: httputil.RetryConfig{
			MaxAttempts: 2,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		},
	}
}

func (s *PageSource) Label() string { return "scrape" }

func (s *PageSource) Load(ctx context.Context) ([]models.Holding, error) {
	resp, err := httputil.Do(ctx, s.httpClient, s.retry, func() (*http.Request, error) {
		return httputil.NewRequest(ctx, s.url)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrSourceUnavailable, s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", ErrSourceUnavailable, s.url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse page: %v", ErrSourceUnavailable, err)
	}

	hs := scrapeHoldingsTable(doc)
	if len(hs) == 0 {
		return nil, fmt.Errorf("%w: no holdings table found on page", ErrSourceUnavailable)
	}
	return hs, nil
}

// scrapeHoldingsTable walks every table on the page and returns rows from
// the first one whose header resolves to ticker and weight columns.
func scrapeHoldingsTable(doc *goquery.Document) []models.Holding {
	var out []models.Holding
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		header := cellTexts(table.Find("thead tr").First(), "th, td")
		if len(header) == 0 {
			header = cellTexts(table.Find("tr").First(), "th, td")
		}
		tIdx, wIdx, pct, ok := resolveColumns(header)
		if !ok {
			return true // keep looking
		}

		var rows [][]string
		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			rows = append(rows, cellTexts(tr, "td"))
		})
		if len(rows) == 0 {
			// No tbody: take every row after the header one.
			table.Find("tr").Each(func(i int, tr *goquery.Selection) {
				if i > 0 {
					rows = append(rows, cellTexts(tr, "td"))
				}
			})
		}

		out = parseRows(rows, tIdx, wIdx, pct)
		return len(out) == 0
	})
	return out
}

func cellTexts(row *goquery.Selection, selector string) []string {
	var cells []string
	row.Find(selector).Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, cell.Text())
	})
	return cells
}
