package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trade-journal/internal/errors"
)

func TestClassifyRuleByRule(t *testing.T) {
	tests := []struct {
		header string
		want   Field
		rule   string
	}{
		{"Date", FieldDate, "date"},
		{"Trade Date", FieldDate, "date"},
		{" DAY ", FieldDate, "date"},
		{"Script", FieldSymbol, "symbol"},
		{"Stock Name", FieldSymbol, "symbol"},
		{"Buy/Sell", FieldSide, "side"},
		{"Type", FieldSide, "side"},
		{"side", FieldSide, "side"},
		{"Quantity", FieldQuantity, "quantity"},
		{"Qty", FieldQuantity, "quantity"},
		{"Lot", FieldQuantity, "quantity"},
		{"Entry Price", FieldEntryPrice, "entry price"},
		{"Buy Price", FieldEntryPrice, "entry price"},
		{"Exit", FieldExitPrice, "exit price"},
		{"Sell Price", FieldExitPrice, "exit price"},
		{"Points", FieldIgnore, "points"},
		{"Profit Points", FieldProfitLoss, "profit/loss"},
		{"Net Profit/Loss", FieldProfitLoss, "profit/loss"},
		{"P&L", FieldProfitLoss, "profit/loss"},
		{"p/l", FieldProfitLoss, "profit/loss"},
		{"PL", FieldProfitLoss, "profit/loss"},
		{"Charges", FieldCharges, "charges"},
		{"Brokerage", FieldCharges, "charges"},
		{"Followed Setup", FieldFollowedSetup, "setup"},
		{"Follow Plan?", FieldFollowedSetup, "setup"},
		{"Remarks", FieldRemarks, "remarks"},
		{"Notes", FieldRemarks, "remarks"},
		{"Initial Capital", FieldIgnore, "capital"},
		{"Current Balance", FieldIgnore, "capital"},
		{"Mood", FieldMood, "mood"},
		{"Emotion", FieldMood, "mood"},
		{"Broker", FieldIgnore, ""},
		{"", FieldIgnore, ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, rule := Classify(tt.header)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.rule, rule)
		})
	}
}

func TestRuleOrderMatters(t *testing.T) {
	// "Sell Date" hits the date rule before the exit-price rule.
	got, _ := Classify("Sell Date")
	assert.Equal(t, FieldDate, got)

	// "Loss Points" contains "point" but also "loss"; the points rule only
	// excludes headers mentioning "profit", so it is ignored.
	got, _ = Classify("Loss Points")
	assert.Equal(t, FieldIgnore, got)
}

func TestPropose(t *testing.T) {
	header := []string{"Date", "Script", "Buy/Sell", "Qty", "Entry", "Exit", "P&L", "Initial Capital"}
	first := []string{"24/11/2025", "RELIANCE", "BUY", "10"}

	m := Propose(header, first)

	require.Len(t, m.Columns, len(header))
	assert.Equal(t, "RELIANCE", m.Columns[1].Sample)
	assert.Equal(t, "", m.Columns[6].Sample)
	assert.Equal(t, FieldIgnore, m.Columns[7].Target)
	for i, c := range m.Columns {
		assert.Equal(t, i, c.SourceIndex)
	}
	assert.NoError(t, m.Validate())
}

func TestValidateListsMissingInCanonicalOrder(t *testing.T) {
	m := Propose([]string{"Remarks", "Script", "Exit Price", "Date"}, nil)

	err := m.Validate()
	require.Error(t, err)

	var mf *apperrors.MissingFieldsError
	require.True(t, apperrors.As(err, &mf))
	assert.Equal(t, []string{"SIDE", "QUANTITY", "ENTRY_PRICE", "PROFIT_LOSS"}, mf.Fields)
	assert.True(t, apperrors.Is(err, apperrors.ErrMissingFields))
}

func TestSetOverridesProposal(t *testing.T) {
	m := Propose([]string{"Date", "Ticker", "Side", "Qty", "Entry", "Exit", "Result"}, nil)
	assert.Equal(t, []Field{FieldSymbol, FieldProfitLoss}, m.Missing())

	require.NoError(t, m.Set(1, FieldSymbol))
	require.NoError(t, m.Set(6, FieldProfitLoss))
	assert.NoError(t, m.Validate())
	assert.Equal(t, "manual", m.Columns[1].Rule)

	idx, ok := m.Lookup(FieldSymbol)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	assert.Error(t, m.Set(7, FieldRemarks))
	assert.Error(t, m.Set(-1, FieldRemarks))
}

func TestApplyTargets(t *testing.T) {
	m := Propose([]string{"A", "B", "C"}, nil)

	require.NoError(t, m.Apply([]string{"date", "", "entry-price"}))
	assert.Equal(t, FieldDate, m.Columns[0].Target)
	assert.Equal(t, FieldIgnore, m.Columns[1].Target)
	assert.Equal(t, FieldEntryPrice, m.Columns[2].Target)

	assert.Error(t, m.Apply([]string{"bogus"}))
}

func TestParseTarget(t *testing.T) {
	tests := map[string]Field{
		"date":           FieldDate,
		"Entry_Price":    FieldEntryPrice,
		"exit price":     FieldExitPrice,
		"follow-setup":   FieldFollowedSetup,
		"followed_setup": FieldFollowedSetup,
		"pnl":            FieldProfitLoss,
		"ignore":         FieldIgnore,
	}
	for in, want := range tests {
		got, err := ParseTarget(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTarget("price")
	assert.Error(t, err)
}

func TestLookupUnmapped(t *testing.T) {
	m := Propose([]string{"Date"}, nil)
	idx, ok := m.Lookup(FieldRemarks)
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}
