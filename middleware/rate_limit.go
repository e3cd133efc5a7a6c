package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"agenteur.ai/web/httputil"
)

// clientLimiter pairs a token bucket with the last time its client was seen
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore hands out one limiter per client IP and forgets idle clients
type limiterStore struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	lastScan time.Time
	now      func() time.Time
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	return &limiterStore{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: 5 * time.Minute,
		now:     time.Now,
	}
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastScan) > s.idleTTL {
		for key, c := range s.clients {
			if now.Sub(c.lastSeen) > s.idleTTL {
				delete(s.clients, key)
			}
		}
		s.lastScan = now
	}

	c, ok := s.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// RateLimit allows each client IP rps requests per second with the given
// burst. Requests over budget get 429. A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) Middleware {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	store := newLimiterStore(rps, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !store.get(remoteIP(r.RemoteAddr)).Allow() {
				w.Header().Set("Retry-After", "1")
				_ = httputil.Error(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
