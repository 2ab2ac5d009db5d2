package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/config"
	"golang.org/x/time/rate"
)

const limiterTTL = 15 * time.Minute

// RateLimit throttles mutating requests (anything but GET, HEAD and OPTIONS)
// per caller, falling back to the client address for anonymous requests.
// Reads are never limited.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	store := newLimiterStore(cfg.MutationsPerMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutation(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			key := "ip:" + clientKey(r, cfg.TrustedProxyCIDRs)
			if caller := auth.CallerFromContext(r.Context()); caller.ID != "" {
				key = "caller:" + caller.ID
			}

			limiter := store.limiter(key)
			if limiter != nil && !limiter.Allow() {
				w.Header().Set("Retry-After", strconv.Itoa(store.retryAfterSeconds()))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

type limiterStore struct {
	mu          sync.Mutex
	limiters    map[string]*limiterEntry
	perMinute   int
	lastCleanup time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(perMinute int) *limiterStore {
	return &limiterStore{
		limiters:    make(map[string]*limiterEntry),
		perMinute:   perMinute,
		lastCleanup: time.Now(),
	}
}

// limiter returns the bucket for key, or nil when limiting is disabled.
// Idle buckets are swept opportunistically so the map stays bounded.
func (s *limiterStore) limiter(key string) *rate.Limiter {
	if s.perMinute <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastCleanup) > limiterTTL {
		for k, entry := range s.limiters {
			if now.Sub(entry.lastSeen) > limiterTTL {
				delete(s.limiters, k)
			}
		}
		s.lastCleanup = now
	}

	if entry, ok := s.limiters[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	interval := time.Minute / time.Duration(s.perMinute)
	limiter := rate.NewLimiter(rate.Every(interval), s.perMinute)
	s.limiters[key] = &limiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

func (s *limiterStore) retryAfterSeconds() int {
	return max(int(time.Minute/time.Duration(s.perMinute)/time.Second), 1)
}

// clientKey extracts the client identifier for rate limiting, trusting
// X-Forwarded-For only from configured proxy CIDRs.
func clientKey(r *http.Request, trustedProxyCIDRs []string) string {
	if r == nil {
		return ""
	}

	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remoteIP = host
	}

	if isTrustedProxy(remoteIP, trustedProxyCIDRs) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			return strings.TrimSpace(first)
		}
		if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
			return strings.TrimSpace(realIP)
		}
	}
	return remoteIP
}

func isTrustedProxy(ip string, trustedCIDRs []string) bool {
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}
	for _, cidrStr := range trustedCIDRs {
		_, cidr, err := net.ParseCIDR(strings.TrimSpace(cidrStr))
		if err != nil {
			continue
		}
		if cidr.Contains(parsedIP) {
			return true
		}
	}
	return false
}
