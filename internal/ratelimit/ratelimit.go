// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	WindowSize    time.Duration // Time window for counting attempts
	MaxAttempts   int           // Maximum attempts per window
	CleanupPeriod time.Duration // How often expired records are dropped
	BanDuration   time.Duration // Ban length after exceeding the limit
}

// DefaultLoginConfig returns sensible defaults for the login endpoint.
func DefaultLoginConfig() *Config {
	return &Config{
		WindowSize:    15 * time.Minute,
		MaxAttempts:   5,
		CleanupPeriod: 30 * time.Minute,
		BanDuration:   30 * time.Minute,
	}
}

// Info reports the limiter's verdict for one request.
type Info struct {
	Allowed    bool
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
	Banned     bool
}

type record struct {
	count     int
	firstSeen time.Time
	bannedAt  *time.Time
}

// MemoryRateLimiter implements in-memory, per-identifier rate limiting with
// a temporary ban once the window limit is exceeded.
type MemoryRateLimiter struct {
	config   *Config
	attempts map[string]*record
	mu       sync.Mutex
	stopCh   chan struct{}
}

// NewMemoryRateLimiter creates a limiter and starts its cleanup loop.
func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	rl := &MemoryRateLimiter{
		config:   config,
		attempts: make(map[string]*record),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow checks whether a request from the identifier should proceed.
func (rl *MemoryRateLimiter) Allow(identifier string) (bool, *Info) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rec, exists := rl.attempts[identifier]

	if !exists || now.Sub(rec.firstSeen) > rl.config.WindowSize && rec.bannedAt == nil {
		rl.attempts[identifier] = &record{count: 1, firstSeen: now}
		return true, &Info{
			Allowed:   true,
			Remaining: rl.config.MaxAttempts - 1,
			ResetTime: now.Add(rl.config.WindowSize),
		}
	}

	if rec.bannedAt != nil {
		if now.Sub(*rec.bannedAt) < rl.config.BanDuration {
			remaining := rl.config.BanDuration - now.Sub(*rec.bannedAt)
			return false, &Info{
				Allowed:    false,
				ResetTime:  rec.bannedAt.Add(rl.config.BanDuration),
				RetryAfter: remaining,
				Banned:     true,
			}
		}
		// Ban expired; start a fresh window.
		rl.attempts[identifier] = &record{count: 1, firstSeen: now}
		return true, &Info{
			Allowed:   true,
			Remaining: rl.config.MaxAttempts - 1,
			ResetTime: now.Add(rl.config.WindowSize),
		}
	}

	rec.count++
	if rec.count > rl.config.MaxAttempts {
		banTime := now
		rec.bannedAt = &banTime
		return false, &Info{
			Allowed:    false,
			ResetTime:  now.Add(rl.config.BanDuration),
			RetryAfter: rl.config.BanDuration,
			Banned:     true,
		}
	}

	return true, &Info{
		Allowed:   true,
		Remaining: rl.config.MaxAttempts - rec.count,
		ResetTime: rec.firstSeen.Add(rl.config.WindowSize),
	}
}

// RecordSuccess resets the identifier's attempts after a successful login.
func (rl *MemoryRateLimiter) RecordSuccess(identifier string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, identifier)
}

// Close stops the cleanup goroutine.
func (rl *MemoryRateLimiter) Close() {
	close(rl.stopCh)
}

func (rl *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemoryRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for identifier, rec := range rl.attempts {
		windowExpired := now.Sub(rec.firstSeen) > rl.config.WindowSize
		banExpired := rec.bannedAt != nil && now.Sub(*rec.bannedAt) > rl.config.BanDuration
		if (windowExpired && rec.bannedAt == nil) || banExpired {
			delete(rl.attempts, identifier)
		}
	}
}

// GetClientIP extracts the real client IP from the request, honoring
// forwarding headers set by a proxy.
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ips := strings.Split(forwarded, ","); len(ips) > 0 {
			if ip := strings.TrimSpace(ips[0]); ip != "" {
				return ip
			}
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
