package api

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/export"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
	"trade-journal/internal/performance"
	"trade-journal/internal/store"
)

// periodTrades lists the owner's trades inside the period given by the
// period, from and to query parameters.
func (s *Server) periodTrades(r *http.Request) ([]models.TradeRecord, performance.Period, error) {
	q := r.URL.Query()
	p, err := performance.ParsePeriod(q.Get("period"), q.Get("from"), q.Get("to"))
	if err != nil {
		return nil, p, apperrors.NewValidationError("period", q.Get("period"), err.Error())
	}
	from, to := p.Range(s.now())
	trades, err := s.store.List(r.Context(), ownerFrom(r), store.TradeFilter{From: from, To: to})
	return trades, p, err
}

type statsResponse struct {
	Period string `json:"period"`
	performance.PeriodStats
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	top := s.opts.TopScripts
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(w, r, "top must be a non-negative integer")
			return
		}
		top = n
	}

	trades, p, err := s.periodTrades(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	stats := performance.Compute(trades, performance.WithTopN(top))
	s.metrics.ObserveStats(time.Since(start))
	logging.LogStats(logging.FromContext(r.Context()), stats.TotalTrades, p.String(), time.Since(start))

	render.JSON(w, r, statsResponse{Period: p.String(), PeriodStats: stats})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	trades, _, err := s.periodTrades(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, trades, performance.Compute(trades, performance.WithTopN(s.opts.TopScripts))); err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="journal-`+models.DateKey(s.now())+`.csv"`)
	_, _ = w.Write(buf.Bytes())
}
