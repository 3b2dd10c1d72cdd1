// Package importer validates mapped journal rows and persists them one by one.
//
// Rows are independent: a bad row is recorded in the outcome and the rest
// carry on. Nothing is rolled back and nothing is retried.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/mapping"
	"trade-journal/internal/metrics"
	"trade-journal/internal/models"
	"trade-journal/internal/tabular"
)

// DefaultConcurrency bounds the number of rows persisted at once.
const DefaultConcurrency = 8

// reportedTolerance is how far a sheet's own P&L may drift from the computed
// net before it is logged.
const reportedTolerance = 0.01

// Creator is the part of the record store the importer needs.
type Creator interface {
	Create(ctx context.Context, input models.TradeInput) (models.TradeRecord, error)
}

// RowError describes one rejected row. Row is the 1-based data row number.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e RowError) String() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d: %s (%q): %s", e.Row, e.Field, e.Value, e.Reason)
}

// ImportOutcome summarises one import. Errors is ordered by row.
type ImportOutcome struct {
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Skipped   int        `json:"skipped"`
	Errors    []RowError `json:"errors"`
	// IDs of the persisted trades, in row order.
	TradeIDs []string `json:"trade_ids,omitempty"`
}

// Total is the number of data rows seen.
func (o *ImportOutcome) Total() int {
	return o.Succeeded + o.Failed + o.Skipped
}

type rowStatus int

const (
	rowSkipped rowStatus = iota
	rowSucceeded
	rowFailed
)

type rowResult struct {
	status rowStatus
	id     string
	err    RowError
}

// Importer persists mapped rows through a Creator.
type Importer struct {
	store       Creator
	logger      zerolog.Logger
	concurrency int
	metrics     *metrics.Metrics
}

// Option configures an Importer.
type Option func(*Importer)

// WithConcurrency sets how many rows may be persisted in parallel.
func WithConcurrency(n int) Option {
	return func(im *Importer) {
		if n > 0 {
			im.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(im *Importer) { im.logger = logger }
}

// WithMetrics records row and import counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(im *Importer) { im.metrics = m }
}

// New creates an Importer.
func New(store Creator, opts ...Option) *Importer {
	im := &Importer{
		store:       store,
		logger:      zerolog.Nop(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Import validates the mapping and then processes every row. The only error
// returned is a MissingFieldsError; row problems are reported in the outcome.
func (im *Importer) Import(ctx context.Context, ownerID string, rows [][]string, m mapping.ColumnMapping) (*ImportOutcome, error) {
	start := time.Now()
	logger := logging.WithOperation(logging.WithOwner(im.logger, ownerID), "import")

	if err := m.Validate(); err != nil {
		im.metrics.ObserveImport("rejected", time.Since(start))
		logger.Warn().Err(err).Msg("Import rejected")
		return nil, err
	}

	pos := positionsOf(m)
	results := make([]rowResult, len(rows))

	var g errgroup.Group
	g.SetLimit(im.concurrency)
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			results[i] = im.importRow(ctx, logger, ownerID, i+1, row, pos)
			return nil
		})
	}
	_ = g.Wait()

	outcome := &ImportOutcome{Errors: []RowError{}}
	for _, r := range results {
		switch r.status {
		case rowSucceeded:
			outcome.Succeeded++
			outcome.TradeIDs = append(outcome.TradeIDs, r.id)
		case rowFailed:
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, r.err)
		default:
			outcome.Skipped++
		}
	}

	elapsed := time.Since(start)
	im.metrics.ObserveRows(outcome.Succeeded, outcome.Failed, outcome.Skipped)
	im.metrics.ObserveImport("completed", elapsed)
	logging.LogImport(logger, outcome.Succeeded, outcome.Failed, outcome.Skipped, elapsed)

	return outcome, nil
}

func (im *Importer) importRow(ctx context.Context, logger zerolog.Logger, ownerID string, rowNum int, row []string, pos positions) rowResult {
	if tabular.IsBlankRow(row) {
		return rowResult{status: rowSkipped}
	}

	parsed, verr := parseRow(rowNum, row, pos)
	if verr != nil {
		logging.LogRowFailure(logger, rowNum, verr.Field, verr.Message)
		return rowResult{status: rowFailed, err: RowError{
			Row:    rowNum,
			Field:  verr.Field,
			Value:  verr.Value,
			Reason: verr.Message,
		}}
	}
	parsed.input.OwnerID = ownerID

	rec, err := im.store.Create(ctx, parsed.input)
	if err != nil {
		reason := err.Error()
		var se *apperrors.StoreError
		if apperrors.As(err, &se) {
			reason = se.Message
			if se.Err != nil {
				reason += ": " + se.Err.Error()
			}
		}
		logging.LogRowFailure(logger, rowNum, "store", reason)
		return rowResult{status: rowFailed, err: RowError{Row: rowNum, Field: "store", Reason: reason}}
	}

	if parsed.hasReported {
		reported := parsed.reported.InexactFloat64()
		if diff := reported - rec.NetProfitLoss; diff > reportedTolerance || diff < -reportedTolerance {
			logger.Debug().
				Int("row", rowNum).
				Float64("reported", reported).
				Float64("computed", rec.NetProfitLoss).
				Msg("Sheet P&L differs from computed net")
		}
	}

	return rowResult{status: rowSucceeded, id: rec.ID}
}
