package server

import (
	"log"
	"net"
	"net/http"
	"sync"
	"time"
)

// rateLimiter is a fixed-window counter keyed by action and client address.
type rateLimiter struct {
	mu      sync.Mutex
	windows map[string]*limitWindow
}

type limitWindow struct {
	start time.Time
	count int
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{windows: make(map[string]*limitWindow)}
}

func (l *rateLimiter) allow(key string, limit int, per time.Duration) bool {
	if limit <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	window, ok := l.windows[key]
	if !ok || now.Sub(window.start) >= per {
		l.windows[key] = &limitWindow{start: now, count: 1}
		return true
	}
	if window.count >= limit {
		return false
	}
	window.count++
	return true
}

func (s *Server) enforceRateLimit(w http.ResponseWriter, r *http.Request, action string) bool {
	limit := s.cfg.MovesPerMinute
	if action == "create" {
		limit = s.cfg.CreateGamesPerMinute
	}
	if s.limiter.allow(action+":"+clientAddr(r), limit, time.Minute) {
		return true
	}
	log.Printf("rate limit hit action=%s addr=%s", action, clientAddr(r))
	writeError(w, http.StatusTooManyRequests, "too many requests")
	return false
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
