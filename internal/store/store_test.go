package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func sampleInput(owner, symbol string, date time.Time) models.TradeInput {
	return models.TradeInput{
		OwnerID:    owner,
		TradeDate:  date,
		Symbol:     symbol,
		Side:       models.OrderSideBuy,
		Quantity:   10,
		EntryPrice: 100,
		ExitPrice:  105,
		Charges:    12.5,
	}
}

func backends(t *testing.T) map[string]TradeStore {
	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]TradeStore{
		DriverSQLite: sqlite,
		DriverMemory: NewMemoryStore(),
	}
}

func TestCreateDerivesProfitLoss(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := sampleInput("alice", " reliance ", time.Date(2025, 11, 24, 14, 5, 0, 0, time.Local))
			in.Mood = "fomo"
			in.FollowedSetup = true
			in.Remarks = "  late entry "

			rec, err := st.Create(ctx, in)
			require.NoError(t, err)

			assert.NotEmpty(t, rec.ID)
			assert.Equal(t, "RELIANCE", rec.Symbol)
			assert.InDelta(t, 50.0, rec.GrossProfitLoss, 1e-9)
			assert.InDelta(t, 37.5, rec.NetProfitLoss, 1e-9)
			assert.Equal(t, models.MoodFOMO, rec.Mood)
			assert.Equal(t, "late entry", rec.Remarks)
			assert.True(t, day(2025, 11, 24).Equal(rec.TradeDate))

			got, err := st.Get(ctx, rec.ID)
			require.NoError(t, err)
			assert.Equal(t, rec.ID, got.ID)
			assert.Equal(t, rec.Symbol, got.Symbol)
			assert.Equal(t, rec.Side, got.Side)
			assert.Equal(t, rec.Quantity, got.Quantity)
			assert.InDelta(t, rec.NetProfitLoss, got.NetProfitLoss, 1e-9)
			assert.True(t, rec.TradeDate.Equal(got.TradeDate))
			assert.True(t, got.FollowedSetup)
			assert.Equal(t, models.MoodFOMO, got.Mood)
			assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Millisecond)
		})
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	tests := map[string]func(*models.TradeInput){
		"missing owner":   func(in *models.TradeInput) { in.OwnerID = "" },
		"zero date":       func(in *models.TradeInput) { in.TradeDate = time.Time{} },
		"bad symbol":      func(in *models.TradeInput) { in.Symbol = "RELI\tANCE" },
		"bad side":        func(in *models.TradeInput) { in.Side = "HOLD" },
		"zero quantity":   func(in *models.TradeInput) { in.Quantity = 0 },
		"negative entry":  func(in *models.TradeInput) { in.EntryPrice = -1 },
		"negative charge": func(in *models.TradeInput) { in.Charges = -0.5 },
		"unknown mood":    func(in *models.TradeInput) { in.Mood = "BORED" },
	}

	for name, st := range backends(t) {
		for caseName, mutate := range tests {
			t.Run(name+"/"+caseName, func(t *testing.T) {
				in := sampleInput("alice", "TCS", day(2025, 11, 24))
				mutate(&in)

				_, err := st.Create(context.Background(), in)

				var se *apperrors.StoreError
				require.True(t, apperrors.As(err, &se), "got %v", err)
				assert.Equal(t, "create", se.Operation)
				assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTrade))
			})
		}
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, in := range []models.TradeInput{
				sampleInput("alice", "TCS", day(2025, 11, 20)),
				sampleInput("alice", "INFY", day(2025, 11, 22)),
				sampleInput("alice", "TCS", day(2025, 11, 24)),
				sampleInput("bob", "TCS", day(2025, 11, 22)),
			} {
				_, err := st.Create(ctx, in)
				require.NoError(t, err)
			}

			all, err := st.List(ctx, "alice", TradeFilter{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "2025-11-24", models.DateKey(all[0].TradeDate))
			assert.Equal(t, "2025-11-20", models.DateKey(all[2].TradeDate))

			ranged, err := st.List(ctx, "alice", TradeFilter{
				From: time.Date(2025, 11, 22, 18, 0, 0, 0, time.Local),
				To:   day(2025, 11, 24),
			})
			require.NoError(t, err)
			assert.Len(t, ranged, 2, "bounds are inclusive at day granularity")

			tcs, err := st.List(ctx, "alice", TradeFilter{Symbol: "tcs"})
			require.NoError(t, err)
			assert.Len(t, tcs, 2)

			limited, err := st.List(ctx, "alice", TradeFilter{Limit: 1})
			require.NoError(t, err)
			require.Len(t, limited, 1)
			assert.Equal(t, "TCS", limited[0].Symbol)

			none, err := st.List(ctx, "carol", TradeFilter{})
			require.NoError(t, err)
			assert.NotNil(t, none)
			assert.Empty(t, none)
		})
	}
}

func TestUpdateRecomputes(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec, err := st.Create(ctx, sampleInput("alice", "SBIN", day(2025, 11, 24)))
			require.NoError(t, err)

			exit := 95.0
			charges := 0.0
			side := models.OrderSide("sell")
			updated, err := st.Update(ctx, rec.ID, models.TradePatch{ExitPrice: &exit, Charges: &charges, Side: &side})
			require.NoError(t, err)

			assert.Equal(t, models.OrderSideSell, updated.Side)
			assert.InDelta(t, -50.0, updated.GrossProfitLoss, 1e-9)
			assert.InDelta(t, -50.0, updated.NetProfitLoss, 1e-9)

			got, err := st.Get(ctx, rec.ID)
			require.NoError(t, err)
			assert.InDelta(t, -50.0, got.NetProfitLoss, 1e-9)
			assert.Equal(t, models.OrderSideSell, got.Side)

			qty := -3
			_, err = st.Update(ctx, rec.ID, models.TradePatch{Quantity: &qty})
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidTrade))

			_, err = st.Update(ctx, "missing", models.TradePatch{ExitPrice: &exit})
			assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
		})
	}
}

func TestDelete(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rec, err := st.Create(ctx, sampleInput("alice", "ITC", day(2025, 11, 24)))
			require.NoError(t, err)

			require.NoError(t, st.Delete(ctx, rec.ID))

			_, err = st.Get(ctx, rec.ID)
			assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
			assert.True(t, apperrors.Is(st.Delete(ctx, rec.ID), apperrors.ErrNotFound))
		})
	}
}

func TestOpen(t *testing.T) {
	st, err := Open(DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, st)

	st, err = Open(DriverSQLite, filepath.Join(t.TempDir(), "j.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, st)
	require.NoError(t, st.Close())

	_, err = Open("postgres", "")
	assert.Error(t, err)
}
