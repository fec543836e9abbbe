package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"newsdesk/internal/handler/http/respond"
	"newsdesk/internal/observability/metrics"

	"golang.org/x/time/rate"
)

// DefaultMaxClients bounds the number of tracked client IPs.
const DefaultMaxClients = 10000

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket.
// It is meant for a small set of sensitive endpoints such as the login form.
type RateLimiter struct {
	every      rate.Limit
	burst      int
	window     time.Duration
	idleTTL    time.Duration
	maxClients int
	extractor  IPExtractor
	denied     http.Handler
	now        func() time.Time

	mu      sync.Mutex
	clients map[string]*client
}

// RateLimiterConfig configures NewRateLimiter.
type RateLimiterConfig struct {
	// Requests allowed per Window, also used as the burst size.
	Requests int
	Window   time.Duration
	// Extractor picks the client IP. Defaults to RemoteAddrExtractor.
	Extractor IPExtractor
	// MaxClients caps the tracked IPs; the oldest idle entries are evicted first.
	MaxClients int
	// Denied writes the response for a throttled request, after Retry-After
	// is set. Defaults to a JSON 429.
	Denied http.Handler
	Now    func() time.Time
}

var deniedJSON = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusTooManyRequests, respond.ErrorBody{Error: "too many requests"})
})

// NewRateLimiter returns a limiter allowing cfg.Requests per cfg.Window per IP.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Requests <= 0 {
		cfg.Requests = 5
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Extractor == nil {
		cfg.Extractor = &RemoteAddrExtractor{}
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = DefaultMaxClients
	}
	if cfg.Denied == nil {
		cfg.Denied = deniedJSON
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &RateLimiter{
		every:      rate.Every(cfg.Window / time.Duration(cfg.Requests)),
		burst:      cfg.Requests,
		window:     cfg.Window,
		idleTTL:    cfg.Window * 2,
		maxClients: cfg.MaxClients,
		extractor:  cfg.Extractor,
		denied:     cfg.Denied,
		now:        cfg.Now,
		clients:    make(map[string]*client),
	}
}

// Allow reports whether a request from ip may proceed and consumes a token.
func (rl *RateLimiter) Allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		if len(rl.clients) >= rl.maxClients {
			rl.evictLocked(now)
		}
		c = &client{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// evictLocked drops idle clients, or the least recently seen one if none is idle.
func (rl *RateLimiter) evictLocked(now time.Time) {
	var oldestIP string
	var oldest time.Time
	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.idleTTL {
			delete(rl.clients, ip)
			continue
		}
		if oldestIP == "" || c.lastSeen.Before(oldest) {
			oldestIP, oldest = ip, c.lastSeen
		}
	}
	if len(rl.clients) >= rl.maxClients && oldestIP != "" {
		delete(rl.clients, oldestIP)
	}
}

// Cleanup removes clients idle for longer than twice the window.
func (rl *RateLimiter) Cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.idleTTL {
			delete(rl.clients, ip)
		}
	}
	slog.Debug("rate limiter: cleanup completed", slog.Int("active_ips", len(rl.clients)))
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Middleware rejects requests over the limit with the Denied handler.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.extractor.ExtractIP(r)
		if err != nil {
			// RemoteAddr が壊れている場合は全員で1つのバケットを共有する
			slog.Warn("rate limiter: IP extraction failed",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr),
			)
			ip = "unknown"
		}

		if !rl.Allow(ip) {
			slog.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path),
			)
			metrics.RecordRateLimited(r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			rl.denied.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
