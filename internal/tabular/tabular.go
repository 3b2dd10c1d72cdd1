// Package tabular decodes uploaded trade sheets into a header row and string cells.
//
// Two backends sit behind the Decoder interface: a delimited-text backend for
// .csv files and a spreadsheet backend for .xlsx/.xls workbooks. The backend is
// chosen from the file extension before any content is read.
package tabular

import (
	"io"
	"path/filepath"
	"strings"

	apperrors "trade-journal/internal/errors"
)

// Table is a decoded sheet: one header row and zero or more data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// FirstRow returns the first data row, or nil when there is none.
func (t *Table) FirstRow() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// Decoder turns raw file content into a grid of cells.
// The first returned row is the header.
type Decoder interface {
	DecodeGrid(r io.Reader) ([][]string, error)
}

// Supported file extensions.
const (
	ExtCSV  = ".csv"
	ExtXLSX = ".xlsx"
	ExtXLS  = ".xls"
)

// SupportedExtensions lists the extensions accepted at the file boundary.
func SupportedExtensions() []string {
	return []string{ExtCSV, ExtXLSX, ExtXLS}
}

// DecoderFor returns the backend for the given file name.
func DecoderFor(name string) (Decoder, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtCSV:
		return DelimitedDecoder{}, nil
	case ExtXLSX, ExtXLS:
		return SpreadsheetDecoder{}, nil
	}
	return nil, apperrors.NewFormatError(name, "unsupported file extension", apperrors.ErrUnsupportedFormat)
}

// Decode reads a whole file and returns its header and filtered data rows.
func Decode(name string, r io.Reader) (*Table, error) {
	dec, err := DecoderFor(name)
	if err != nil {
		return nil, err
	}

	grid, err := dec.DecodeGrid(r)
	if err != nil {
		return nil, apperrors.NewFormatError(name, "unreadable content", err)
	}

	if len(grid) == 0 {
		return nil, apperrors.NewFormatError(name, "no header row", apperrors.ErrTooFewRows)
	}

	table := &Table{Header: grid[0]}
	for _, row := range grid[1:] {
		if IsBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, apperrors.NewFormatError(name, "no data rows", apperrors.ErrTooFewRows)
	}

	return table, nil
}

// IsBlankRow reports whether every cell is empty or the literal "0".
// Such rows are spreadsheet filler rather than trades.
func IsBlankRow(row []string) bool {
	for _, cell := range row {
		c := strings.TrimSpace(cell)
		if c != "" && c != "0" {
			return false
		}
	}
	return true
}
