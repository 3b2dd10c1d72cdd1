package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/importer"
	"trade-journal/internal/mapping"
	"trade-journal/internal/models"
	"trade-journal/internal/performance"
	"trade-journal/internal/store"
	"trade-journal/pkg/utils"
)

func TestHeaderMapsBackToEveryField(t *testing.T) {
	want := []mapping.Field{
		mapping.FieldDate,
		mapping.FieldSymbol,
		mapping.FieldSide,
		mapping.FieldQuantity,
		mapping.FieldEntryPrice,
		mapping.FieldExitPrice,
		mapping.FieldCharges,
		mapping.FieldProfitLoss,
		mapping.FieldFollowedSetup,
		mapping.FieldMood,
		mapping.FieldRemarks,
	}
	require.Len(t, Header, len(want))
	for i, h := range Header {
		got, _ := mapping.Classify(h)
		assert.Equal(t, want[i], got, h)
	}
}

func TestRow(t *testing.T) {
	rec := models.TradeRecord{
		TradeDate:     time.Date(2025, 11, 24, 0, 0, 0, 0, time.Local),
		Symbol:        "RELIANCE",
		Side:          models.OrderSideBuy,
		Quantity:      10,
		EntryPrice:    2450.5,
		ExitPrice:     2475,
		Charges:       20,
		NetProfitLoss: 225,
		FollowedSetup: true,
		Remarks:       "clean breakout",
	}

	assert.Equal(t, []string{
		"2025-11-24", "RELIANCE", "BUY", "10", "2450.50", "2475.00", "20.00", "225.00", "Yes", "CALM", "clean breakout",
	}, Row(rec))
}

func TestWriteOrdersOldestFirstAndAppendsSummary(t *testing.T) {
	trades := []models.TradeRecord{
		{TradeDate: time.Date(2025, 11, 26, 0, 0, 0, 0, time.Local), Symbol: "B", Side: models.OrderSideSell, Quantity: 1, EntryPrice: 10, ExitPrice: 9, NetProfitLoss: -1},
		{TradeDate: time.Date(2025, 11, 24, 0, 0, 0, 0, time.Local), Symbol: "A", Side: models.OrderSideBuy, Quantity: 1, EntryPrice: 10, ExitPrice: 12, NetProfitLoss: 2, Remarks: `said "wait", then entered`},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, trades, performance.Compute(trades)))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, strings.Join(Header, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2025-11-24,A,"))
	assert.True(t, strings.HasSuffix(lines[1], `"said 'wait', then entered"`))
	assert.True(t, strings.HasPrefix(lines[2], "2025-11-26,B,"))
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "Summary", lines[4])
	assert.Contains(t, buf.String(), "Total Trades,2\n")
	assert.Contains(t, buf.String(), "Win Rate,50.00%\n")
	assert.Contains(t, buf.String(), "Period,2025-11-24 to 2025-11-26\n")

	assert.Equal(t, "B", trades[0].Symbol, "input must not be reordered")
}

func TestSummaryInfiniteProfitFactor(t *testing.T) {
	s := performance.Compute([]models.TradeRecord{{Symbol: "A", GrossProfitLoss: 1500, NetProfitLoss: 1500}})
	lines := Summary(s)
	assert.Contains(t, lines, []string{"Profit Factor", "∞"})
	assert.Contains(t, lines, []string{"Net P&L", "+₹1,500.00"})
}

func TestRoundTrip(t *testing.T) {
	const source = `Trade Date,Stock,Buy/Sell,Qty,Buy Price,Sell Price,Brokerage,P&L,Setup Followed,Emotion,Notes
24/11/2025,reliance,buy,10,"2,450.50",2475.25,20.40,227.10,yes,confident,"gap up, held"
25/11/2025,TCS,SELL,5,3500,3490.75,15,-61.25,no,fomo,
26/11/2025,INFY,BUY,100,1500.05,1499.95,0,-10,TRUE,,chased
`
	ctx := context.Background()
	first := store.NewMemoryStore()
	outcome, _, err := importer.New(first).ImportFile(ctx, "me", "journal.csv", strings.NewReader(source), 1<<20, nil)
	require.NoError(t, err)
	require.Equal(t, 3, outcome.Succeeded, outcome.Errors)

	original, err := first.List(ctx, "me", store.TradeFilter{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, original, performance.Compute(original)))

	second := store.NewMemoryStore()
	again, preview, err := importer.New(second).ImportFile(ctx, "me", "export.csv", &buf, 1<<20, nil)
	require.NoError(t, err)
	assert.Empty(t, preview.Missing)
	assert.Equal(t, 3, again.Succeeded)
	// Summary lines are not trades and are reported after the trade rows.
	assert.Equal(t, len(Summary(performance.Compute(original))), again.Failed)
	for _, e := range again.Errors {
		assert.Greater(t, e.Row, 3)
	}

	reimported, err := second.List(ctx, "me", store.TradeFilter{})
	require.NoError(t, err)
	require.Len(t, reimported, len(original))

	bySymbol := map[string]models.TradeRecord{}
	for _, r := range reimported {
		bySymbol[r.Symbol] = r
	}
	for _, o := range original {
		r, ok := bySymbol[o.Symbol]
		require.True(t, ok, o.Symbol)
		assert.Equal(t, models.DateKey(o.TradeDate), models.DateKey(r.TradeDate), o.Symbol)
		assert.Equal(t, o.Side, r.Side, o.Symbol)
		assert.Equal(t, o.Quantity, r.Quantity, o.Symbol)
		assert.Equal(t, utils.Money(o.EntryPrice), utils.Money(r.EntryPrice), o.Symbol)
		assert.Equal(t, utils.Money(o.ExitPrice), utils.Money(r.ExitPrice), o.Symbol)
		assert.Equal(t, utils.Money(o.Charges), utils.Money(r.Charges), o.Symbol)
		assert.Equal(t, utils.Money(o.NetProfitLoss), utils.Money(r.NetProfitLoss), o.Symbol)
		assert.Equal(t, o.FollowedSetup, r.FollowedSetup, o.Symbol)
		assert.Equal(t, o.Mood, r.Mood, o.Symbol)
		assert.Equal(t, o.Remarks, r.Remarks, o.Symbol)
	}

	reliance := bySymbol["RELIANCE"]
	assert.Equal(t, "2025-11-24", models.DateKey(reliance.TradeDate))
	assert.Equal(t, "227.10", utils.Money(reliance.NetProfitLoss))
	assert.Equal(t, models.MoodConfident, reliance.Mood)
	assert.Equal(t, "gap up, held", reliance.Remarks)
	assert.Equal(t, models.DefaultMood, bySymbol["INFY"].Mood)
}
