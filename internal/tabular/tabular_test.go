package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "trade-journal/internal/errors"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ,c ", []string{"a", "b", "c"}},
		{`"1,234.50",RELIANCE`, []string{"1,234.50", "RELIANCE"}},
		{`x,"hello, world",y`, []string{"x", "hello, world", "y"}},
		{"a,,c", []string{"a", "", "c"}},
		{"", []string{""}},
		{`"unterminated, still one field`, []string{"unterminated, still one field"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitLine(tt.line), tt.line)
	}
}

func TestDecodeCSV(t *testing.T) {
	content := "\xEF\xBB\xBFDate,Script,Buy/Sell,Qty\r\n" +
		"24/11/2025,reliance,BUY,10\r\n" +
		",,,\r\n" +
		"0,0,0,0\r\n" +
		"\r\n" +
		"25/11/2025,\"TCS\",SELL,5\r\n"

	table, err := Decode("trades.csv", strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Script", "Buy/Sell", "Qty"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"24/11/2025", "reliance", "BUY", "10"}, table.Rows[0])
	assert.Equal(t, []string{"25/11/2025", "TCS", "SELL", "5"}, table.Rows[1])
	assert.Equal(t, table.Rows[0], table.FirstRow())
}

func TestDecodeRejectsUnsupportedExtension(t *testing.T) {
	_, err := Decode("trades.pdf", strings.NewReader("anything"))

	var fe *apperrors.FormatError
	require.True(t, apperrors.As(err, &fe))
	assert.True(t, apperrors.Is(err, apperrors.ErrUnsupportedFormat))
}

func TestDecodeRequiresDataRow(t *testing.T) {
	tests := map[string]string{
		"empty file":       "",
		"header only":      "Date,Script\n",
		"only filler rows": "Date,Script\n0,0\n,\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode("trades.csv", strings.NewReader(content))
			assert.True(t, apperrors.Is(err, apperrors.ErrTooFewRows), "got %v", err)
		})
	}
}

func TestExtensionIsCaseInsensitive(t *testing.T) {
	dec, err := DecoderFor("Journal.CSV")
	require.NoError(t, err)
	assert.IsType(t, DelimitedDecoder{}, dec)

	dec, err = DecoderFor("journal.XLS")
	require.NoError(t, err)
	assert.IsType(t, SpreadsheetDecoder{}, dec)
}

func TestDecodeXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Date", "Script", "Buy/Sell", "Quantity", "Entry Price", "Exit Price", "Remarks"},
		{"2025-11-24", "INFY", "BUY", 10, 1500.5, 1510.25, "breakout"},
		{nil, nil, nil, nil, nil, nil, nil},
		{"2025-11-25", "SBIN", "SELL", 20, 800, 795},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	// A second sheet must be ignored.
	_, err := f.NewSheet("Summary")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Summary", "A1", "Total"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Decode("journal.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, "Entry Price", table.Header[4])
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "INFY", table.Rows[0][1])
	assert.Equal(t, "10", table.Rows[0][3])
	assert.Equal(t, "1510.25", table.Rows[0][5])
	assert.Equal(t, "breakout", table.Rows[0][6])

	// Short rows are padded to the header width.
	assert.Len(t, table.Rows[1], 7)
	assert.Equal(t, "", table.Rows[1][6])
}

func TestDecodeCorruptWorkbook(t *testing.T) {
	_, err := Decode("broken.xlsx", strings.NewReader("not a zip archive"))

	var fe *apperrors.FormatError
	assert.True(t, apperrors.As(err, &fe))
}

func TestIsBlankRow(t *testing.T) {
	assert.True(t, IsBlankRow(nil))
	assert.True(t, IsBlankRow([]string{"", " ", "0", " 0 "}))
	assert.False(t, IsBlankRow([]string{"0", "RELIANCE"}))
	assert.False(t, IsBlankRow([]string{"0.0"}))
}
