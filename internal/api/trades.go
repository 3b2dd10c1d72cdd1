package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
)

// tradeRequest is the body of POST /api/trades. The date is YYYY-MM-DD.
type tradeRequest struct {
	TradeDate     string           `json:"trade_date"`
	Symbol        string           `json:"symbol"`
	Side          models.OrderSide `json:"side"`
	Quantity      int              `json:"quantity"`
	EntryPrice    float64          `json:"entry_price"`
	ExitPrice     float64          `json:"exit_price"`
	Charges       float64          `json:"charges"`
	FollowedSetup bool             `json:"followed_setup"`
	Mood          models.Mood      `json:"mood"`
	Remarks       string           `json:"remarks"`

	date time.Time
}

// Bind implements render.Binder.
func (t *tradeRequest) Bind(r *http.Request) error {
	d, err := parseDay(t.TradeDate)
	if err != nil {
		return err
	}
	t.date = d
	return nil
}

func (t *tradeRequest) input(owner string) models.TradeInput {
	return models.TradeInput{
		OwnerID:       owner,
		TradeDate:     t.date,
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

// patchRequest is the body of PATCH /api/trades/{id}; absent fields are
// left unchanged.
type patchRequest struct {
	TradeDate *string `json:"trade_date"`
	models.TradePatch
}

// Bind implements render.Binder.
func (p *patchRequest) Bind(r *http.Request) error {
	if p.TradeDate != nil {
		d, err := parseDay(*p.TradeDate)
		if err != nil {
			return err
		}
		p.TradePatch.TradeDate = &d
	}
	if p.TradePatch.IsEmpty() {
		return errors.New("patch changes nothing")
	}
	return nil
}

func parseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, errors.New("trade_date must be YYYY-MM-DD")
	}
	return d, nil
}

func (s *Server) listTrades(w http.ResponseWriter, r *http.Request) {
	filter := store.TradeFilter{Symbol: r.URL.Query().Get("symbol")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(w, r, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}
	q := r.URL.Query()
	for _, b := range []struct {
		name string
		dst  *time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		if raw := q.Get(b.name); raw != "" {
			d, err := parseDay(raw)
			if err != nil {
				badRequest(w, r, b.name+" must be YYYY-MM-DD")
				return
			}
			*b.dst = d
		}
	}

	trades, err := s.store.List(r.Context(), ownerFrom(r), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, trades)
}

func (s *Server) createTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := render.Bind(r, &req); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	rec, err := s.store.Create(r.Context(), req.input(ownerFrom(r)))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, rec)
}

// owned fetches a trade and hides trades of other owners behind not found.
func (s *Server) owned(r *http.Request) (models.TradeRecord, error) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		return models.TradeRecord{}, err
	}
	if rec.OwnerID != ownerFrom(r) {
		return models.TradeRecord{}, apperrors.NewStoreError("get", "trade "+id, apperrors.ErrNotFound)
	}
	return rec, nil
}

func (s *Server) getTrade(w http.ResponseWriter, r *http.Request) {
	rec, err := s.owned(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, rec)
}

func (s *Server) updateTrade(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := render.Bind(r, &req); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	rec, err := s.owned(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	updated, err := s.store.Update(r.Context(), rec.ID, req.TradePatch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, updated)
}

func (s *Server) deleteTrade(w http.ResponseWriter, r *http.Request) {
	rec, err := s.owned(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), rec.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
