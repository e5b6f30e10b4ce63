package restapi

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/aaditya062025S/campus-concierge/internal/clock"
)

// rateLimitClient tracks the limiter and its last usage time so idle
// clients can be evicted without disrupting active ones.
type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // Unix nanoseconds
}

// RateLimitMiddleware provides per-client rate limiting keyed by the
// caller's remote host. There is no API-key concept here; the endpoint
// is open and the limiter only guards against a single noisy client.
type RateLimitMiddleware struct {
	limiters    map[string]*rateLimitClient
	mu          sync.RWMutex
	rateLimit   rate.Limit
	burstSize   int
	cleanupTick *time.Ticker
	stopChan    chan struct{}
	stopOnce    sync.Once
	clock       clock.Clock
}

// NewRateLimitMiddleware creates a limiter allowing ratePerSecond
// requests per second per client, with the same burst allowance.
// ratePerSecond <= 0 disables limiting.
func NewRateLimitMiddleware(ratePerSecond int, clk clock.Clock) *RateLimitMiddleware {
	rateLimit := rate.Inf
	if ratePerSecond > 0 {
		rateLimit = rate.Every(time.Second / time.Duration(ratePerSecond))
	}

	middleware := &RateLimitMiddleware{
		limiters:    make(map[string]*rateLimitClient),
		rateLimit:   rateLimit,
		burstSize:   ratePerSecond,
		cleanupTick: time.NewTicker(5 * time.Minute),
		stopChan:    make(chan struct{}),
		clock:       clk,
	}

	go middleware.cleanup()

	return middleware
}

// Handler returns the HTTP middleware handler function
func (rl *RateLimitMiddleware) Handler() func(http.Handler) http.Handler {
	return rl.rateLimitHandler
}

// getLimiter gets or creates a rate limiter for the given client
// and updates the last usage timestamp.
func (rl *RateLimitMiddleware) getLimiter(client string) *rate.Limiter {
	// Fast path: the client exists, update lastSeen under a read lock.
	rl.mu.RLock()
	if c, exists := rl.limiters[client]; exists {
		c.lastSeen.Store(rl.clock.Now().UnixNano())
		rl.mu.RUnlock()
		return c.limiter
	}
	rl.mu.RUnlock()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Another goroutine might have created it while we waited.
	if c, exists := rl.limiters[client]; exists {
		c.lastSeen.Store(rl.clock.Now().UnixNano())
		return c.limiter
	}

	burst := rl.burstSize
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rl.rateLimit, burst)
	newClient := &rateLimitClient{limiter: limiter}
	newClient.lastSeen.Store(rl.clock.Now().UnixNano())
	rl.limiters[client] = newClient

	return limiter
}

func (rl *RateLimitMiddleware) rateLimitHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientKey(r)

		limiter := rl.getLimiter(client)
		if !limiter.Allow() {
			rl.sendRateLimitExceeded(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey identifies a caller by remote host, ignoring the ephemeral
// port so one client maps to one limiter.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// sendRateLimitExceeded sends a 429 Too Many Requests response
func (rl *RateLimitMiddleware) sendRateLimitExceeded(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "1")
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.WriteHeader(http.StatusTooManyRequests)

	errorResponse := map[string]interface{}{
		"code":        http.StatusTooManyRequests,
		"text":        "Rate limit exceeded. Please try again later.",
		"currentTime": rl.clock.Now().UnixMilli(),
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		slog.Error("failed to encode rate limit response", "error", err)
	}
}

// cleanupOnce performs a single iteration of removing idle limiters.
// It is separated from the background loop so tests can trigger it
// synchronously.
func (rl *RateLimitMiddleware) cleanupOnce() {
	threshold := 10 * time.Minute

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()

	for key, client := range rl.limiters {
		lastSeenNano := client.lastSeen.Load()
		if lastSeenNano == 0 {
			continue
		}
		if now.Sub(time.Unix(0, lastSeenNano)) > threshold {
			delete(rl.limiters, key)
		}
	}
}

// cleanup periodically removes idle limiters to prevent memory leaks
func (rl *RateLimitMiddleware) cleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.cleanupOnce()
		case <-rl.stopChan:
			return
		}
	}
}

// Stop stops the cleanup goroutine. It is safe to call multiple times.
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopChan)
		rl.cleanupTick.Stop()
	})
}
