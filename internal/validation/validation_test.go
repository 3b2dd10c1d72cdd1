package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/models"
)

func TestStructValid(t *testing.T) {
	in := models.TradeInput{
		OwnerID:    "alice",
		TradeDate:  time.Now(),
		Symbol:     "M&M",
		Side:       models.OrderSideBuy,
		Quantity:   1,
		EntryPrice: 1,
		ExitPrice:  2,
	}
	assert.NoError(t, Struct(in))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(models.TradeInput{Side: "HOLD", Symbol: "bad\tsymbol"})
	require.Error(t, err)

	var errs Errors
	require.ErrorAs(t, err, &errs)

	byField := map[string]string{}
	for _, fe := range errs {
		byField[fe.Field] = fe.Message
	}
	assert.Equal(t, "owner_id is required", byField["owner_id"])
	assert.Equal(t, "side must be one of: BUY, SELL", byField["side"])
	assert.Equal(t, "symbol must be printable text", byField["symbol"])
	assert.Equal(t, "quantity must be greater than 0", byField["quantity"])
	assert.Contains(t, err.Error(), "; ")
}

func TestPatchSymbolRule(t *testing.T) {
	for _, good := range []string{"BAJAJ-AUTO", "NIFTY 24500 CE", "M&M.NS"} {
		good := good
		assert.NoError(t, Struct(models.TradePatch{Symbol: &good}), good)
	}
	for _, bad := range []string{"RELI\nANCE", " TCS", "\x00"} {
		bad := bad
		assert.Error(t, Struct(models.TradePatch{Symbol: &bad}), "%q", bad)
	}
	assert.NoError(t, Struct(models.TradePatch{}))
}
