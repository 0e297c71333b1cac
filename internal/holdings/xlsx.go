package holdings

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhagglund/navpulse/internal/models"
)

// XLSXSource reads the bundled holdings workbook the provider publishes.
// The holdings table is headed at a fixed row of a named sheet, below the
// fund metadata block.
type XLSXSource struct {
	path      string
	sheet     string
	headerRow int // 1-based
}

func NewXLSXSource(path, sheet string, headerRow int) *XLSXSource {
	if sheet == "" {
		sheet = "Holdings"
	}
	if headerRow < 1 {
		headerRow = 1
	}
	return &XLSXSource{path: path, sheet: sheet, headerRow: headerRow}
}

func (s *XLSXSource) Label() string { return "xlsx" }

func (s *XLSXSource) Load(ctx context.Context) ([]models.Holding, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %v", ErrSourceUnavailable, s.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrSourceUnavailable, s.sheet, err)
	}
	if len(rows) < s.headerRow {
		return nil, fmt.Errorf("%w: sheet %q has %d rows, header expected at row %d",
			ErrSourceUnavailable, s.sheet, len(rows), s.headerRow)
	}

	tIdx, wIdx, pct, ok := resolveColumns(rows[s.headerRow-1])
	if !ok {
		return nil, fmt.Errorf("%w: row %d of sheet %q has no ticker and weight columns",
			ErrSourceUnavailable, s.headerRow, s.sheet)
	}
	return parseRows(rows[s.headerRow:], tIdx, wIdx, pct), nil
}
