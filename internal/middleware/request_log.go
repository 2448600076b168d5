package middleware

import (
	"net/http"
	"time"

	"pet-meds/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// HTTPObserver recibe cada request terminado (métricas).
type HTTPObserver interface {
	ObserveHTTP(method string, status int, d time.Duration)
}

// RequestLogger escribe una línea por request con el request id de chi.
// Debe ir después de chimw.RequestID.
func RequestLogger(l logger.Logger, obs HTTPObserver) func(http.Handler) http.Handler {
	if l == nil {
		l = logger.Nop()
	}
	l = l.With(map[string]any{"component": "http"})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			if obs != nil {
				obs.ObserveHTTP(r.Method, status, elapsed)
			}

			fields := map[string]any{
				"request_id": chimw.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     status,
				"bytes":      ww.BytesWritten(),
				"elapsed_ms": elapsed.Milliseconds(),
			}
			switch {
			case status >= 500:
				l.Error("request", fields)
			case status >= 400:
				l.Warn("request", fields)
			default:
				l.Info("request", fields)
			}
		})
	}
}
