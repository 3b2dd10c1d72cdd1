package importer

import (
	"strings"

	"github.com/shopspring/decimal"

	"trade-journal/internal/dates"
	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/mapping"
	"trade-journal/internal/models"
)

// positions holds the source index of every field, -1 when unmapped.
type positions map[mapping.Field]int

func positionsOf(m mapping.ColumnMapping) positions {
	p := positions{}
	for _, f := range mapping.Fields() {
		if f == mapping.FieldIgnore {
			continue
		}
		idx, _ := m.Lookup(f)
		p[f] = idx
	}
	return p
}

func (p positions) cell(row []string, f mapping.Field) string {
	idx, ok := p[f]
	if !ok || idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

var truthy = map[string]bool{"yes": true, "true": true, "1": true}

// parsedRow is a validated row ready for the store.
type parsedRow struct {
	input models.TradeInput
	// reported is the sheet's own P&L figure, when present and numeric.
	reported    decimal.Decimal
	hasReported bool
}

// parseRow applies the per-row business rules. rowNum is only used to label
// the returned error.
func parseRow(rowNum int, row []string, p positions) (parsedRow, *apperrors.RowValidationError) {
	fail := func(f mapping.Field, value, msg string) (parsedRow, *apperrors.RowValidationError) {
		return parsedRow{}, apperrors.NewRowValidationError(rowNum, f.Label(), value, msg)
	}

	rawDate := p.cell(row, mapping.FieldDate)
	if rawDate == "" {
		return fail(mapping.FieldDate, "", "missing date")
	}
	date := dates.ParseDayFirst(rawDate)
	if date.IsZero() {
		return fail(mapping.FieldDate, rawDate, "invalid date")
	}

	symbol := strings.ToUpper(p.cell(row, mapping.FieldSymbol))
	if symbol == "" {
		return fail(mapping.FieldSymbol, "", "missing symbol")
	}

	rawSide := p.cell(row, mapping.FieldSide)
	side, ok := models.ParseSide(rawSide)
	if !ok {
		return fail(mapping.FieldSide, rawSide, "must be BUY or SELL")
	}

	rawQty := p.cell(row, mapping.FieldQuantity)
	qty, ok := parsePositiveInt(rawQty)
	if !ok {
		return fail(mapping.FieldQuantity, rawQty, "must be a positive whole number")
	}

	rawEntry := p.cell(row, mapping.FieldEntryPrice)
	entry, ok := parsePositive(rawEntry)
	if !ok {
		return fail(mapping.FieldEntryPrice, rawEntry, "must be a positive number")
	}

	rawExit := p.cell(row, mapping.FieldExitPrice)
	exit, ok := parsePositive(rawExit)
	if !ok {
		return fail(mapping.FieldExitPrice, rawExit, "must be a positive number")
	}

	charges := decimal.Zero
	if c, err := parseDecimal(p.cell(row, mapping.FieldCharges)); err == nil && !c.IsNegative() {
		charges = c
	}

	mood, ok := models.ParseMood(p.cell(row, mapping.FieldMood))
	if !ok {
		mood = models.DefaultMood
	}

	out := parsedRow{
		input: models.TradeInput{
			TradeDate:     date,
			Symbol:        symbol,
			Side:          side,
			Quantity:      qty,
			EntryPrice:    entry.InexactFloat64(),
			ExitPrice:     exit.InexactFloat64(),
			Charges:       charges.InexactFloat64(),
			FollowedSetup: truthy[strings.ToLower(p.cell(row, mapping.FieldFollowedSetup))],
			Mood:          mood,
			Remarks:       p.cell(row, mapping.FieldRemarks),
		},
	}
	if pl, err := parseDecimal(p.cell(row, mapping.FieldProfitLoss)); err == nil {
		out.reported, out.hasReported = pl, true
	}
	return out, nil
}

// parseDecimal accepts thousands separators and a leading rupee sign.
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer(",", "", "₹", "", " ", "").Replace(strings.TrimSpace(s))
	return decimal.NewFromString(s)
}

func parsePositive(s string) (decimal.Decimal, bool) {
	d, err := parseDecimal(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// parsePositiveInt accepts integral decimals such as "10.0".
func parsePositiveInt(s string) (int, bool) {
	d, ok := parsePositive(s)
	if !ok || !d.IsInteger() || d.GreaterThan(decimal.NewFromInt(maxQuantity)) {
		return 0, false
	}
	return int(d.IntPart()), true
}

const maxQuantity = 1 << 31
