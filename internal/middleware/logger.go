package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one line per request, at warn for 4xx and error for
// 5xx. The client is identified by key, never by raw address.
func RequestLogger(logger *slog.Logger, key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []any{
				"status", status,
				"method", r.Method,
				"path", r.URL.Path,
				"bytes", ww.BytesWritten(),
				"latency", time.Since(start),
				"client", key(r),
			}
			if id := chimw.GetReqID(r.Context()); id != "" {
				attrs = append(attrs, "request_id", id)
			}

			switch {
			case status >= 500:
				logger.Error("request failed", attrs...)
			case status >= 400:
				logger.Warn("request rejected", attrs...)
			default:
				logger.Info("request completed", attrs...)
			}
		})
	}
}
