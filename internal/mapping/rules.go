package mapping

import "strings"

// Rule matches a normalized (lower-cased, trimmed) header to a target field.
type Rule struct {
	Name   string
	Match  func(h string) bool
	Target Field
}

// Rules is evaluated in order and the first match wins, so a header such as
// "Buy Price" reaches the entry-price rule only because it fails the side rule
// (which needs both "buy" and "sell").
var Rules = []Rule{
	{
		Name:   "date",
		Match:  func(h string) bool { return strings.Contains(h, "date") || h == "day" },
		Target: FieldDate,
	},
	{
		Name:   "symbol",
		Match:  func(h string) bool { return containsAny(h, "script", "symbol", "stock") },
		Target: FieldSymbol,
	},
	{
		Name: "side",
		Match: func(h string) bool {
			return (strings.Contains(h, "buy") && strings.Contains(h, "sell")) || h == "type" || h == "side"
		},
		Target: FieldSide,
	},
	{
		Name:   "quantity",
		Match:  func(h string) bool { return strings.Contains(h, "quantity") || h == "qty" || h == "lot" },
		Target: FieldQuantity,
	},
	{
		Name:   "entry price",
		Match:  func(h string) bool { return containsAny(h, "entry", "buy price") },
		Target: FieldEntryPrice,
	},
	{
		Name:   "exit price",
		Match:  func(h string) bool { return containsAny(h, "exit", "sell price") },
		Target: FieldExitPrice,
	},
	{
		// Points columns duplicate the price difference.
		Name:   "points",
		Match:  func(h string) bool { return strings.Contains(h, "point") && !strings.Contains(h, "profit") },
		Target: FieldIgnore,
	},
	{
		Name: "profit/loss",
		Match: func(h string) bool {
			return containsAny(h, "profit", "loss") || h == "p&l" || h == "p/l" || h == "pl"
		},
		Target: FieldProfitLoss,
	},
	{
		Name:   "charges",
		Match:  func(h string) bool { return containsAny(h, "charge", "brokerage", "fee") },
		Target: FieldCharges,
	},
	{
		Name:   "setup",
		Match:  func(h string) bool { return containsAny(h, "setup", "follow") },
		Target: FieldFollowedSetup,
	},
	{
		Name:   "remarks",
		Match:  func(h string) bool { return containsAny(h, "remark", "comment", "note") },
		Target: FieldRemarks,
	},
	{
		Name:   "mood",
		Match:  func(h string) bool { return containsAny(h, "mood", "emotion") },
		Target: FieldMood,
	},
	{
		Name:   "capital",
		Match:  func(h string) bool { return containsAny(h, "capital", "initial", "current") },
		Target: FieldIgnore,
	},
}

// Classify returns the target for a raw header and the name of the rule that
// matched it ("" when no rule matched and the column is ignored).
func Classify(header string) (Field, string) {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, r := range Rules {
		if r.Match(h) {
			return r.Target, r.Name
		}
	}
	return FieldIgnore, ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
