package tabular

import (
	"bytes"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DelimitedDecoder reads comma-separated text.
//
// It deliberately does not use encoding/csv: a double quote only toggles the
// in-quotes state, so stray quotes inside a field never abort the whole file.
type DelimitedDecoder struct{}

// DecodeGrid splits content into lines and each line into trimmed fields.
func (DelimitedDecoder) DecodeGrid(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var grid [][]string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		grid = append(grid, SplitLine(line))
	}
	return grid, nil
}

// SplitLine performs a quote-aware comma split of one line.
func SplitLine(line string) []string {
	var fields []string
	var field strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))

	return fields
}
