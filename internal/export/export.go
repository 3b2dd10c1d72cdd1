// Package export writes journal trades back out as delimited text.
//
// The column headers are chosen so that each one classifies to its own field
// under the import mapping rules, so an exported file imports back unchanged.
package export

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"trade-journal/internal/models"
	"trade-journal/internal/performance"
	"trade-journal/pkg/utils"
)

// Header is the fixed column order of an export.
var Header = []string{
	"Date",
	"Script",
	"Buy/Sell",
	"Quantity",
	"Entry Price",
	"Exit Price",
	"Charges",
	"Net Profit/Loss",
	"Followed Setup",
	"Mood",
	"Remarks",
}

// Write renders trades oldest first, then a blank line and a summary of
// stats. The input slice is not reordered.
func Write(w io.Writer, trades []models.TradeRecord, stats performance.PeriodStats) error {
	bw := bufio.NewWriter(w)

	writeLine(bw, Header)
	for _, t := range sorted(trades) {
		writeLine(bw, Row(t))
	}

	bw.WriteString("\n")
	for _, line := range Summary(stats) {
		writeLine(bw, line)
	}
	return bw.Flush()
}

// Row renders one trade in Header order.
func Row(t models.TradeRecord) []string {
	followed := "No"
	if t.FollowedSetup {
		followed = "Yes"
	}
	mood := t.Mood
	if mood == "" {
		mood = models.DefaultMood
	}
	return []string{
		models.DateKey(t.TradeDate),
		t.Symbol,
		string(t.Side),
		strconv.Itoa(t.Quantity),
		utils.Money(t.EntryPrice),
		utils.Money(t.ExitPrice),
		utils.Money(t.Charges),
		utils.Money(t.NetProfitLoss),
		followed,
		string(mood),
		t.Remarks,
	}
}

// Summary returns the label/value lines of the trailing block.
func Summary(s performance.PeriodStats) [][]string {
	pf := "∞"
	if !s.ProfitFactor.IsInf() {
		pf = strconv.FormatFloat(float64(s.ProfitFactor), 'f', 2, 64)
	}
	lines := [][]string{
		{"Summary"},
		{"Total Trades", strconv.Itoa(s.TotalTrades)},
		{"Winning Trades", strconv.Itoa(s.Wins)},
		{"Losing Trades", strconv.Itoa(s.Losses)},
		{"Win Rate", utils.FormatPercent(s.WinRate)},
		{"Profit Factor", pf},
		{"Setup Adherence", utils.FormatPercent(s.SetupAdherenceRate)},
		{"Total Charges", utils.FormatIndianCurrency(s.TotalCharges)},
		{"Net P&L", utils.FormatPnL(s.TotalNetPL)},
	}
	if s.FirstDate != "" {
		lines = append(lines, []string{"Period", s.FirstDate + " to " + s.LastDate})
	}
	return lines
}

func sorted(trades []models.TradeRecord) []models.TradeRecord {
	out := append([]models.TradeRecord(nil), trades...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TradeDate.Before(out[j].TradeDate)
	})
	return out
}

func writeLine(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString(quote(f))
	}
	w.WriteByte('\n')
}

// quote wraps fields holding commas in double quotes. The import decoder
// treats every quote as a toggle, so embedded quotes become apostrophes and
// line breaks become spaces.
func quote(f string) string {
	f = strings.NewReplacer(`"`, "'", "\r\n", " ", "\n", " ", "\r", " ").Replace(f)
	if strings.ContainsRune(f, ',') {
		return `"` + f + `"`
	}
	return f
}
