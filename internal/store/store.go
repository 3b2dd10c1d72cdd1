// Package store provides trade persistence interfaces and implementations.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/validation"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// TradeStore is the system of record for journal trades.
type TradeStore interface {
	Create(ctx context.Context, input models.TradeInput) (models.TradeRecord, error)
	Get(ctx context.Context, id string) (models.TradeRecord, error)
	List(ctx context.Context, ownerID string, filter TradeFilter) ([]models.TradeRecord, error)
	Update(ctx context.Context, id string, patch models.TradePatch) (models.TradeRecord, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// TradeFilter narrows List. From and To are inclusive calendar days; zero
// values leave that side open.
type TradeFilter struct {
	From   time.Time
	To     time.Time
	Symbol string
	Limit  int
}

// Open returns the store for driver.
func Open(driver, path string) (TradeStore, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLiteStore(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// newRecord validates input and builds the record to persist.
func newRecord(input models.TradeInput, now time.Time) (models.TradeRecord, error) {
	input.Normalize()
	if err := validation.Struct(input); err != nil {
		return models.TradeRecord{}, apperrors.NewStoreError("create", err.Error(), apperrors.ErrInvalidTrade)
	}
	rec := input.Record()
	rec.ID = uuid.NewString()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return rec, nil
}

// applyPatch validates patch, applies it to rec and re-validates the result.
func applyPatch(rec models.TradeRecord, patch models.TradePatch, now time.Time) (models.TradeRecord, error) {
	patch.Normalize()
	if err := validation.Struct(patch); err != nil {
		return models.TradeRecord{}, apperrors.NewStoreError("update", err.Error(), apperrors.ErrInvalidTrade)
	}
	patch.Apply(&rec)
	if err := validation.Struct(rec.Input()); err != nil {
		return models.TradeRecord{}, apperrors.NewStoreError("update", err.Error(), apperrors.ErrInvalidTrade)
	}
	rec.UpdatedAt = now
	return rec, nil
}

func notFound(op, id string) error {
	return apperrors.NewStoreError(op, fmt.Sprintf("trade %s", id), apperrors.ErrNotFound)
}

// matches applies filter to one record. Both backends use the same day
// granularity.
func (f TradeFilter) matches(t models.TradeRecord) bool {
	day := models.DateKey(t.TradeDate)
	if !f.From.IsZero() && day < models.DateKey(f.From) {
		return false
	}
	if !f.To.IsZero() && day > models.DateKey(f.To) {
		return false
	}
	if f.Symbol != "" && t.Symbol != f.Symbol {
		return false
	}
	return true
}
