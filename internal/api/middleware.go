package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"trade-journal/internal/logging"
)

type ctxKey string

const ownerKey ctxKey = "owner"

// requestIDLog tags the request logger with chi's request id.
func requestIDLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("req_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

// owner resolves the journal owner and attaches it, plus an owner-scoped
// logger, to the request context.
func (s *Server) owner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(OwnerHeader))
		if id == "" {
			id = s.opts.DefaultOwner
		}
		ctx := context.WithValue(r.Context(), ownerKey, id)
		ctx = logging.WithLogger(ctx, logging.WithOwner(*zerolog.Ctx(r.Context()), id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ownerFrom(r *http.Request) string {
	id, _ := r.Context().Value(ownerKey).(string)
	return id
}

// observe records request counts and latency by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveHTTP(route, r.Method, strconv.Itoa(status), time.Since(start))
	})
}
