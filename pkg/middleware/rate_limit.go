package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"bouncely/pkg/auth"
	"bouncely/pkg/logger"
)

// KeyExtractor names the bucket a request is counted against.
type KeyExtractor func(r *http.Request) string

// ActorRateLimiter is a sliding-window limiter keyed per caller.
type ActorRateLimiter struct {
	mu           sync.Mutex
	requests     map[string][]time.Time
	limit        int
	window       time.Duration
	keyExtractor KeyExtractor
	log          *logger.Logger
	stopCh       chan struct{}
	once         sync.Once
}

func NewActorRateLimiter(limit int, window time.Duration, extractor KeyExtractor, log *logger.Logger) *ActorRateLimiter {
	if extractor == nil {
		extractor = DefaultKeyExtractor
	}
	limiter := &ActorRateLimiter{
		requests:     make(map[string][]time.Time),
		limit:        limit,
		window:       window,
		keyExtractor: extractor,
		log:          log,
		stopCh:       make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *ActorRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for key, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *ActorRateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

func (rl *ActorRateLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	timestamps := rl.requests[key]
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

func RateLimit(limiter *ActorRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiter.keyExtractor(r)

			if !limiter.Allow(key) {
				rejectRateLimited(w, limiter.log, r, key)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectRateLimited(w http.ResponseWriter, log *logger.Logger, r *http.Request, key string) {
	log.Warn("Rate limit exceeded",
		"request_id", RequestID(r.Context()),
		"key", key,
		"path", r.URL.Path,
	)

	w.Header().Set("Retry-After", "60")
	writeJSONError(w, http.StatusTooManyRequests, "Rate limit exceeded", "RATE_LIMITED")
}

// DefaultKeyExtractor buckets authenticated callers by user id and everyone
// else by remote address.
func DefaultKeyExtractor(r *http.Request) string {
	if actor, ok := auth.ActorFromContext(r.Context()); ok {
		return "user:" + actor.UserID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
