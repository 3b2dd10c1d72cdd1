// Package api exposes the journal over HTTP: file import, trade CRUD,
// statistics and export.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"trade-journal/internal/importer"
	"trade-journal/internal/metrics"
	"trade-journal/internal/store"
)

// OwnerHeader carries the journal owner of a request.
const OwnerHeader = "X-Owner-ID"

// Options tunes request handling.
type Options struct {
	// DefaultOwner is used when a request carries no OwnerHeader.
	DefaultOwner string
	// MaxFileBytes caps uploaded files; 0 means no cap.
	MaxFileBytes int64
	TopScripts   int
}

// Server holds the handler dependencies.
type Server struct {
	store    store.TradeStore
	importer *importer.Importer
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	opts     Options
	now      func() time.Time
}

// New creates a Server. m may be nil.
func New(st store.TradeStore, im *importer.Importer, m *metrics.Metrics, logger zerolog.Logger, opts Options) *Server {
	if opts.DefaultOwner == "" {
		opts.DefaultOwner = "default"
	}
	return &Server{
		store:    st,
		importer: im,
		metrics:  m,
		logger:   logger.With().Str("component", "api").Logger(),
		opts:     opts,
		now:      time.Now,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(requestIDLog)
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(s.owner)

		r.Post("/imports/preview", s.previewImport)
		r.Post("/imports", s.runImport)
		r.Get("/stats", s.stats)
		r.Get("/export", s.export)

		r.Route("/trades", func(r chi.Router) {
			r.Get("/", s.listTrades)
			r.Post("/", s.createTrade)
			r.Get("/{id}", s.getTrade)
			r.Patch("/{id}", s.updateTrade)
			r.Delete("/{id}", s.deleteTrade)
		})
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info().Msg("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
