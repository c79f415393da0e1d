package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RateLimit allows perMinute requests per client address with a burst of the
// same size. Idle limiters expire after ten minutes.
func RateLimit(perMinute int, logger zerolog.Logger) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		perMinute = 30
	}
	limiters := cache.New(10*time.Minute, 20*time.Minute)
	var mu sync.Mutex
	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if existing, ok := limiters.Get(key); ok {
			limiters.SetDefault(key, existing)
			return existing.(*rate.Limiter)
		}
		limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		limiters.SetDefault(key, limiter)
		return limiter
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientAddress(r)
			if !limiterFor(key).Allow() {
				logger.Warn().Str("client", key).Str("path", r.URL.Path).Msg("rate limit exceeded")
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
