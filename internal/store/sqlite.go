package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// SQLiteStore implements TradeStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Concurrent imports share the pool; WAL plus the busy timeout serialises writers.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		trade_date TEXT NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL CHECK (side IN ('BUY', 'SELL')),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		entry_price REAL NOT NULL CHECK (entry_price > 0),
		exit_price REAL NOT NULL CHECK (exit_price > 0),
		gross_profit_loss REAL NOT NULL,
		charges REAL NOT NULL DEFAULT 0 CHECK (charges >= 0),
		net_profit_loss REAL NOT NULL,
		followed_setup INTEGER NOT NULL DEFAULT 0,
		mood TEXT NOT NULL DEFAULT 'CALM',
		remarks TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trades_owner_date ON trades(owner_id, trade_date);
	CREATE INDEX IF NOT EXISTS idx_trades_owner_symbol ON trades(owner_id, symbol);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const tradeColumns = `id, owner_id, trade_date, symbol, side, quantity, entry_price, exit_price,
	gross_profit_loss, charges, net_profit_loss, followed_setup, mood, remarks, created_at, updated_at`

// Create validates and inserts a trade.
func (s *SQLiteStore) Create(ctx context.Context, input models.TradeInput) (models.TradeRecord, error) {
	rec, err := newRecord(input, time.Now().UTC())
	if err != nil {
		return models.TradeRecord{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.OwnerID, models.DateKey(rec.TradeDate), rec.Symbol, string(rec.Side), rec.Quantity,
		rec.EntryPrice, rec.ExitPrice, rec.GrossProfitLoss, rec.Charges, rec.NetProfitLoss,
		boolToInt(rec.FollowedSetup), string(rec.Mood), rec.Remarks, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return models.TradeRecord{}, apperrors.NewStoreError("create", "failed to insert trade", err)
	}
	return rec, nil
}

// Get returns one trade by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (models.TradeRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id)
	rec, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TradeRecord{}, notFound("get", id)
	}
	if err != nil {
		return models.TradeRecord{}, apperrors.NewStoreError("get", "failed to read trade", err)
	}
	return rec, nil
}

// List returns an owner's trades, most recent trading day first.
func (s *SQLiteStore) List(ctx context.Context, ownerID string, filter TradeFilter) ([]models.TradeRecord, error) {
	query := "SELECT " + tradeColumns + " FROM trades WHERE owner_id = ?"
	args := []interface{}{ownerID}

	if !filter.From.IsZero() {
		query += " AND trade_date >= ?"
		args = append(args, models.DateKey(filter.From))
	}
	if !filter.To.IsZero() {
		query += " AND trade_date <= ?"
		args = append(args, models.DateKey(filter.To))
	}
	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, strings.ToUpper(filter.Symbol))
	}

	query += " ORDER BY trade_date DESC, created_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("list", "failed to query trades", err)
	}
	defer rows.Close()

	trades := []models.TradeRecord{}
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("list", "failed to scan trade", err)
		}
		trades = append(trades, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("list", "error iterating trades", err)
	}
	return trades, nil
}

// Update applies patch to the trade and recomputes its P&L.
func (s *SQLiteStore) Update(ctx context.Context, id string, patch models.TradePatch) (models.TradeRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.TradeRecord{}, apperrors.NewStoreError("update", "failed to begin transaction", err)
	}
	defer tx.Rollback()

	current, err := scanTrade(tx.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.TradeRecord{}, notFound("update", id)
	}
	if err != nil {
		return models.TradeRecord{}, apperrors.NewStoreError("update", "failed to read trade", err)
	}

	rec, err := applyPatch(current, patch, time.Now().UTC())
	if err != nil {
		return models.TradeRecord{}, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE trades SET trade_date = ?, symbol = ?, side = ?, quantity = ?, entry_price = ?,
			exit_price = ?, gross_profit_loss = ?, charges = ?, net_profit_loss = ?,
			followed_setup = ?, mood = ?, remarks = ?, updated_at = ?
		WHERE id = ?
	`, models.DateKey(rec.TradeDate), rec.Symbol, string(rec.Side), rec.Quantity, rec.EntryPrice,
		rec.ExitPrice, rec.GrossProfitLoss, rec.Charges, rec.NetProfitLoss,
		boolToInt(rec.FollowedSetup), string(rec.Mood), rec.Remarks, rec.UpdatedAt, id)
	if err != nil {
		return models.TradeRecord{}, apperrors.NewStoreError("update", "failed to update trade", err)
	}

	if err := tx.Commit(); err != nil {
		return models.TradeRecord{}, apperrors.NewStoreError("update", "failed to commit", err)
	}
	return rec, nil
}

// Delete removes a trade.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStoreError("delete", "failed to delete trade", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("delete", "failed to read result", err)
	}
	if n == 0 {
		return notFound("delete", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(sc scanner) (models.TradeRecord, error) {
	var (
		t        models.TradeRecord
		date     string
		side     string
		mood     string
		followed int
	)
	err := sc.Scan(&t.ID, &t.OwnerID, &date, &t.Symbol, &side, &t.Quantity, &t.EntryPrice, &t.ExitPrice,
		&t.GrossProfitLoss, &t.Charges, &t.NetProfitLoss, &followed, &mood, &t.Remarks, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.TradeRecord{}, err
	}

	t.TradeDate, err = time.ParseInLocation(models.DateLayout, date, time.Local)
	if err != nil {
		return models.TradeRecord{}, fmt.Errorf("bad trade_date %q: %w", date, err)
	}
	t.Side = models.OrderSide(side)
	t.Mood = models.Mood(mood)
	t.FollowedSetup = followed == 1
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
