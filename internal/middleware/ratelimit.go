package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL is how long a client bucket survives without traffic.
const idleTTL = 10 * time.Minute

// KeyFunc maps a request to the bucket it is limited under.
type KeyFunc func(r *http.Request) string

// Hasher pseudonymises client addresses.
type Hasher interface {
	Sum(v string) string
}

// ClientKey keys requests on the hashed client address. Run it after
// chi's RealIP so proxied requests resolve to the real client.
func ClientKey(h Hasher) KeyFunc {
	return func(r *http.Request) string {
		return h.Sum(ClientIP(r))
	}
}

// ClientIP returns the request's remote address without the port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type clientLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiter(r rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    burst,
		now:      time.Now,
	}
}

func (cl *clientLimiter) allow(key string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	if now.Sub(cl.lastSweep) > idleTTL {
		for k, v := range cl.visitors {
			if now.Sub(v.lastSeen) > idleTTL {
				delete(cl.visitors, k)
			}
		}
		cl.lastSweep = now
	}

	v, ok := cl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(cl.rate, cl.burst)}
		cl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimit allows perMinute requests per key, refilled evenly over the
// minute. A perMinute of zero disables limiting.
func RateLimit(perMinute int, key KeyFunc) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(h http.Handler) http.Handler { return h }
	}

	cl := newClientLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cl.allow(key(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Too many requests, please try again later",
				})
				return
			}
			h.ServeHTTP(w, r)
		})
	}
}
