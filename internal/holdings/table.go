package holdings

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhagglund/navpulse/internal/models"
)

// resolveColumns locates the ticker and weight columns in a header row.
// percent reports whether the weight column is expressed in percent.
func resolveColumns(header []string) (tickerIdx, weightIdx int, percent, ok bool) {
	tickerIdx, weightIdx = -1, -1
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case name == "ticker" || name == "symbol":
			if tickerIdx == -1 {
				tickerIdx = i
			}
		case strings.Contains(name, "weight"):
			if weightIdx == -1 {
				weightIdx = i
				percent = strings.Contains(name, "%") || strings.Contains(name, "percent")
			}
		}
	}
	return tickerIdx, weightIdx, percent, tickerIdx >= 0 && weightIdx >= 0
}

// parseWeight parses a weight cell. Thousands separators and a trailing %
// are tolerated; percent values are shifted to fractions.
func parseWeight(raw string, percent bool) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		percent = true
	}
	if s == "" || s == "-" {
		return decimal.Decimal{}, fmt.Errorf("empty weight cell")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("weight %q: %w", raw, err)
	}
	if percent {
		d = d.Shift(-2)
	}
	return d, nil
}

// parseRows converts the rows below a header into holdings. Rows without a
// usable ticker or weight (cash lines, disclaimers, blanks) are skipped, as
// the provider appends them below the equity table.
func parseRows(rows [][]string, tickerIdx, weightIdx int, percent bool) []models.Holding {
	var out []models.Holding
	for _, row := range rows {
		if len(row) <= tickerIdx || len(row) <= weightIdx {
			continue
		}
		ticker := strings.TrimSpace(row[tickerIdx])
		if ticker == "" || ticker == "-" {
			continue
		}
		w, err := parseWeight(row[weightIdx], percent)
		if err != nil {
			continue
		}
		out = append(out, models.Holding{Ticker: ticker, Weight: w})
	}
	return out
}

// parseCSVTable reads a CSV payload whose holdings table may sit below a
// provider preamble. The header row is located by its ticker column rather
// than a fixed offset, so both the download endpoint and plain snapshots
// parse the same way.
func parseCSVTable(r io.Reader) ([]models.Holding, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	for i, rec := range records {
		if tIdx, wIdx, pct, ok := resolveColumns(rec); ok {
			return parseRows(records[i+1:], tIdx, wIdx, pct), nil
		}
	}
	return nil, fmt.Errorf("no header row with ticker and weight columns")
}
