package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SpreadsheetDecoder reads the first sheet of a workbook.
//
// Cells are read as raw values, so dates arrive as serial day numbers and
// prices without display formatting. Legacy BIFF .xls files are not readable
// by excelize and surface as a format error.
type SpreadsheetDecoder struct{}

// DecodeGrid returns every row of the first sheet, padded to the header width.
func (SpreadsheetDecoder) DecodeGrid(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	// Drop leading empty rows so the first populated row is the header.
	for len(rows) > 0 && isEmpty(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, nil
	}

	width := len(rows[0])
	grid := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, max(width, len(row)))
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
		}
		grid = append(grid, cells)
	}

	return grid, nil
}

func isEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
