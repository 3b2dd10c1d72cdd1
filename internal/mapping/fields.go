// Package mapping proposes and validates the assignment of sheet columns to
// the fixed set of trade fields the importer understands.
package mapping

import (
	"fmt"
	"strings"
)

// Field is a semantic trade attribute a source column can be mapped to.
type Field string

const (
	FieldDate          Field = "DATE"
	FieldSymbol        Field = "SYMBOL"
	FieldSide          Field = "SIDE"
	FieldQuantity      Field = "QUANTITY"
	FieldEntryPrice    Field = "ENTRY_PRICE"
	FieldExitPrice     Field = "EXIT_PRICE"
	FieldProfitLoss    Field = "PROFIT_LOSS"
	FieldCharges       Field = "CHARGES"
	FieldFollowedSetup Field = "FOLLOW_SETUP"
	FieldRemarks       Field = "REMARKS"
	FieldMood          Field = "MOOD"
	FieldIgnore        Field = "IGNORE"
)

// Fields returns every target in display order, IGNORE last.
func Fields() []Field {
	return []Field{
		FieldDate, FieldSymbol, FieldSide, FieldQuantity, FieldEntryPrice,
		FieldExitPrice, FieldProfitLoss, FieldCharges, FieldFollowedSetup,
		FieldRemarks, FieldMood, FieldIgnore,
	}
}

// RequiredFields returns the fields that must be mapped before an import.
func RequiredFields() []Field {
	return []Field{
		FieldDate, FieldSymbol, FieldSide, FieldQuantity,
		FieldEntryPrice, FieldExitPrice, FieldProfitLoss,
	}
}

// ParseTarget accepts a field name in any case, with '-' or ' ' for '_'.
func ParseTarget(s string) (Field, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "FOLLOWED_SETUP", "SETUP":
		return FieldFollowedSetup, nil
	case "ENTRY":
		return FieldEntryPrice, nil
	case "EXIT":
		return FieldExitPrice, nil
	case "PL", "PNL", "P&L":
		return FieldProfitLoss, nil
	}
	for _, f := range Fields() {
		if string(f) == norm {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Label returns a lower-case human name used in row diagnostics.
func (f Field) Label() string {
	return strings.ToLower(strings.ReplaceAll(string(f), "_", " "))
}
