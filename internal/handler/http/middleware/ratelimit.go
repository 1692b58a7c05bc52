package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-overtime/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const defaultLimiterIdleTTL = 10 * time.Minute

// ClientRateLimiter stores a rate limiter per client. A client is the token's
// user_id when present, the remote IP otherwise. A limiter unused for idleTTL
// is evicted, so a returning client starts with a full burst.
type ClientRateLimiter struct {
	clients *cache.Cache
	r       rate.Limit
	b       int
}

func NewClientRateLimiter(r rate.Limit, b int, idleTTL time.Duration) *ClientRateLimiter {
	if idleTTL <= 0 {
		idleTTL = defaultLimiterIdleTTL
	}
	return &ClientRateLimiter{
		clients: cache.New(idleTTL, 2*idleTTL),
		r:       r,
		b:       b,
	}
}

func (l *ClientRateLimiter) addClient(key string) *rate.Limiter {
	limiter := rate.NewLimiter(l.r, l.b)
	if err := l.clients.Add(key, limiter, cache.DefaultExpiration); err != nil {
		// Another request registered the client first.
		if existing, ok := l.clients.Get(key); ok {
			return existing.(*rate.Limiter)
		}
	}
	return limiter
}

// GetLimiter returns the limiter of a client, creating it on first use. Every
// call pushes the client's expiry back by the idle TTL.
func (l *ClientRateLimiter) GetLimiter(key string) *rate.Limiter {
	cached, exists := l.clients.Get(key)
	if !exists {
		return l.addClient(key)
	}
	limiter := cached.(*rate.Limiter)
	l.clients.SetDefault(key, limiter)
	return limiter
}

// Len reports how many clients currently hold a limiter.
func (l *ClientRateLimiter) Len() int {
	return l.clients.ItemCount()
}

// RateLimit rejects requests over the client's limit with 429.
func RateLimit(limiter *ClientRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.GetLimiter(clientKey(r)).Allow() {
				response.TooManyRequests(w, "Too many requests, try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if _, claims, err := jwtauth.FromContext(r.Context()); err == nil {
		if userID, ok := claims["user_id"].(string); ok && userID != "" {
			return "user:" + userID
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
