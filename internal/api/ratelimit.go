package api

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Idle buckets are swept so the per-IP map stays bounded under churn.
const (
	bucketSweepEvery = 5 * time.Minute
	bucketIdleAfter  = 10 * time.Minute
)

// bucket pairs a token limiter with the time of its last request.
type bucket struct {
	tokens   *rate.Limiter
	lastSeen time.Time
}

// throttle hands out one token bucket per client IP. Every bucket starts
// full at `burst` tokens and refills at `perSecond`.
type throttle struct {
	mu        sync.Mutex
	perSecond rate.Limit
	burst     int
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newThrottle(perSecond float64, burst int) *throttle {
	return &throttle{
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

// take consumes one token for ip and reports whether the request may
// proceed. The sweep of idle buckets piggybacks on regular calls rather
// than running a background goroutine.
func (t *throttle) take(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if now.Sub(t.lastSweep) > bucketSweepEvery {
		for key, b := range t.buckets {
			if now.Sub(b.lastSeen) > bucketIdleAfter {
				delete(t.buckets, key)
			}
		}
		t.lastSweep = now
	}

	b, ok := t.buckets[ip]
	if !ok {
		b = &bucket{tokens: rate.NewLimiter(t.perSecond, t.burst)}
		t.buckets[ip] = b
	}
	b.lastSeen = now
	return b.tokens.Allow()
}

// rateLimitMiddleware rejects requests once a client IP exhausts its bucket.
func rateLimitMiddleware(t *throttle, trustProxy bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustProxy)
			if !t.take(ip) {
				logger.Warn("throttling client",
					"ip", ip,
					"path", r.URL.Path,
					"method", r.Method,
				)
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests", logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the address used as the throttle key. Reverse-proxy
// headers are honoured only when the server is configured to sit behind
// one, and their values must parse as IPs so arbitrary header strings
// cannot mint fresh buckets.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, candidate := range proxyHeaderIPs(r) {
			if ip := net.ParseIP(candidate); ip != nil {
				return ip.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// proxyHeaderIPs lists candidate client addresses from proxy headers:
// X-Real-IP first, then the first hop of X-Forwarded-For.
func proxyHeaderIPs(r *http.Request) []string {
	var out []string
	if v := strings.TrimSpace(r.Header.Get("X-Real-IP")); v != "" {
		out = append(out, v)
	}
	if v := r.Header.Get("X-Forwarded-For"); v != "" {
		first, _, _ := strings.Cut(v, ",")
		if first = strings.TrimSpace(first); first != "" {
			out = append(out, first)
		}
	}
	return out
}
