package handler

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 5 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the mail transport is reachable.
func Health(transport pinger) http.HandlerFunc {
	h := &BaseHandler{}
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK

		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := transport.Ping(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		_ = h.writeJSON(w, code, envelope{"status": status}, nil)
	}
}
