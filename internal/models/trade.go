package models

import (
	"strings"
	"time"
)

// TradeRecord represents one realized intraday trade in the journal.
type TradeRecord struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	TradeDate       time.Time `json:"trade_date"`
	Symbol          string    `json:"symbol"`
	Side            OrderSide `json:"side"`
	Quantity        int       `json:"quantity"`
	EntryPrice      float64   `json:"entry_price"`
	ExitPrice       float64   `json:"exit_price"`
	GrossProfitLoss float64   `json:"gross_profit_loss"`
	Charges         float64   `json:"charges"`
	NetProfitLoss   float64   `json:"net_profit_loss"`
	FollowedSetup   bool      `json:"followed_setup"`
	Mood            Mood      `json:"mood"`
	Remarks         string    `json:"remarks,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Recompute derives gross and net P&L from prices, quantity and charges.
// Every write path calls it so net can never drift from gross and charges.
func (t *TradeRecord) Recompute() {
	t.GrossProfitLoss = GrossProfitLoss(t.EntryPrice, t.ExitPrice, t.Quantity)
	t.NetProfitLoss = t.GrossProfitLoss - t.Charges
}

// IsWin reports whether the trade closed with a positive net P&L.
func (t TradeRecord) IsWin() bool { return t.NetProfitLoss > 0 }

// IsLoss reports whether the trade closed with a negative net P&L.
func (t TradeRecord) IsLoss() bool { return t.NetProfitLoss < 0 }

// GrossProfitLoss returns (exit - entry) * quantity.
func GrossProfitLoss(entry, exit float64, quantity int) float64 {
	return (exit - entry) * float64(quantity)
}

// TradeInput carries the caller-supplied fields of a new trade.
// Gross and net P&L are not accepted from callers; the store derives them.
type TradeInput struct {
	OwnerID       string    `json:"owner_id" validate:"required"`
	TradeDate     time.Time `json:"trade_date" validate:"required"`
	Symbol        string    `json:"symbol" validate:"required,max=32,symbol"`
	Side          OrderSide `json:"side" validate:"required,oneof=BUY SELL"`
	Quantity      int       `json:"quantity" validate:"gt=0"`
	EntryPrice    float64   `json:"entry_price" validate:"gt=0"`
	ExitPrice     float64   `json:"exit_price" validate:"gt=0"`
	Charges       float64   `json:"charges" validate:"gte=0"`
	FollowedSetup bool      `json:"followed_setup"`
	Mood          Mood      `json:"mood" validate:"omitempty,oneof=CALM CONFIDENT OVERCONFIDENT ANXIOUS FOMO PANICKED"`
	Remarks       string    `json:"remarks" validate:"max=2000"`
}

// Normalize upper-cases symbol and side, trims remarks and fills the
// default mood.
func (in *TradeInput) Normalize() {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	in.Side = OrderSide(strings.ToUpper(strings.TrimSpace(string(in.Side))))
	in.Remarks = strings.TrimSpace(in.Remarks)
	in.Mood = Mood(strings.ToUpper(strings.TrimSpace(string(in.Mood))))
	if in.Mood == "" {
		in.Mood = DefaultMood
	}
}

// Record builds a TradeRecord from the input with derived fields filled in.
func (in TradeInput) Record() TradeRecord {
	mood := in.Mood
	if mood == "" {
		mood = DefaultMood
	}
	rec := TradeRecord{
		OwnerID:       in.OwnerID,
		TradeDate:     TruncateDay(in.TradeDate),
		Symbol:        in.Symbol,
		Side:          in.Side,
		Quantity:      in.Quantity,
		EntryPrice:    in.EntryPrice,
		ExitPrice:     in.ExitPrice,
		Charges:       in.Charges,
		FollowedSetup: in.FollowedSetup,
		Mood:          mood,
		Remarks:       in.Remarks,
	}
	rec.Recompute()
	return rec
}

// TradePatch describes a partial update; nil fields are left unchanged.
type TradePatch struct {
	TradeDate     *time.Time `json:"trade_date,omitempty"`
	Symbol        *string    `json:"symbol,omitempty" validate:"omitempty,min=1,max=32,symbol"`
	Side          *OrderSide `json:"side,omitempty" validate:"omitempty,oneof=BUY SELL"`
	Quantity      *int       `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	EntryPrice    *float64   `json:"entry_price,omitempty" validate:"omitempty,gt=0"`
	ExitPrice     *float64   `json:"exit_price,omitempty" validate:"omitempty,gt=0"`
	Charges       *float64   `json:"charges,omitempty" validate:"omitempty,gte=0"`
	FollowedSetup *bool      `json:"followed_setup,omitempty"`
	Mood          *Mood      `json:"mood,omitempty" validate:"omitempty,oneof=CALM CONFIDENT OVERCONFIDENT ANXIOUS FOMO PANICKED"`
	Remarks       *string    `json:"remarks,omitempty" validate:"omitempty,max=2000"`
}

// Normalize applies the same clean-up as TradeInput.Normalize to set fields.
func (p *TradePatch) Normalize() {
	if p.Symbol != nil {
		v := strings.ToUpper(strings.TrimSpace(*p.Symbol))
		p.Symbol = &v
	}
	if p.Side != nil {
		v := OrderSide(strings.ToUpper(strings.TrimSpace(string(*p.Side))))
		p.Side = &v
	}
	if p.Mood != nil {
		v := Mood(strings.ToUpper(strings.TrimSpace(string(*p.Mood))))
		p.Mood = &v
	}
	if p.Remarks != nil {
		v := strings.TrimSpace(*p.Remarks)
		p.Remarks = &v
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p TradePatch) IsEmpty() bool {
	return p == TradePatch{}
}

// Apply merges the patch into t and recomputes derived fields.
func (p TradePatch) Apply(t *TradeRecord) {
	if p.TradeDate != nil {
		t.TradeDate = TruncateDay(*p.TradeDate)
	}
	if p.Symbol != nil {
		t.Symbol = *p.Symbol
	}
	if p.Side != nil {
		t.Side = *p.Side
	}
	if p.Quantity != nil {
		t.Quantity = *p.Quantity
	}
	if p.EntryPrice != nil {
		t.EntryPrice = *p.EntryPrice
	}
	if p.ExitPrice != nil {
		t.ExitPrice = *p.ExitPrice
	}
	if p.Charges != nil {
		t.Charges = *p.Charges
	}
	if p.FollowedSetup != nil {
		t.FollowedSetup = *p.FollowedSetup
	}
	if p.Mood != nil {
		t.Mood = *p.Mood
	}
	if p.Remarks != nil {
		t.Remarks = *p.Remarks
	}
	t.Recompute()
}

// Input returns the caller-editable fields of t, used to re-validate a
// record after a patch.
func (t TradeRecord) Input() TradeInput {
	return TradeInput{
		OwnerID:       t.OwnerID,
		TradeDate:     t.TradeDate,
		Symbol:        t.Symbol,
		Side:          t.Side,
		Quantity:      t.Quantity,
		EntryPrice:    t.EntryPrice,
		ExitPrice:     t.ExitPrice,
		Charges:       t.Charges,
		FollowedSetup: t.FollowedSetup,
		Mood:          t.Mood,
		Remarks:       t.Remarks,
	}
}
