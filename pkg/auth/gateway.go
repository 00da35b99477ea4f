package auth

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"huddle/pkg/logger"
	"huddle/pkg/logging"
	"huddle/pkg/utils"
)

// GatewayConfig drives the edge middleware: CORS, IP whitelisting and
// per-client rate limiting. Identity itself is not resolved here; every
// engine operation resolves its own session token.
type GatewayConfig struct {
	AllowedOrigins []string
	RPS            float64
	Burst          int
	IPWhitelist    []string
}

// gateway holds the edge state shared across requests: the config and
// one token bucket per client IP, created on first sight.
type gateway struct {
	cfg GatewayConfig

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func (g *gateway) allow(ip string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.buckets[ip]
	if !ok {
		rps := g.cfg.RPS
		if rps <= 0 {
			rps = 20
		}
		burst := g.cfg.Burst
		if burst <= 0 {
			burst = 40
		}
		b = rate.NewLimiter(rate.Limit(rps), burst)
		g.buckets[ip] = b
	}
	return b.Allow()
}

// GatewayMiddleware wraps the API with the edge checks. Rate limiting
// is keyed by client IP; health probes pass through unauthenticated.
func GatewayMiddleware(cfg GatewayConfig) func(http.Handler) http.Handler {
	g := &gateway{cfg: cfg, buckets: make(map[string]*rate.Limiter)}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logging.LogRequest(r)

			// cors preflight
			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(origin, cfg.AllowedOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
				w.Header().Set("Access-Control-Max-Age", "600")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			// ip whitelist
			if len(cfg.IPWhitelist) > 0 {
				ip := clientIP(r)
				if !ipWhitelisted(ip, cfg.IPWhitelist) {
					utils.JSONError(w, http.StatusForbidden, "forbidden")
					logger.Warn("request_blocked", "reason", "ip_not_whitelisted", "ip", ip, "path", r.URL.Path)
					return
				}
			}

			// allow unauthenticated health checks for probes
			if (r.URL.Path == "/healthz" || r.URL.Path == "/readyz") && r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			// rate limiting by client ip
			if !g.allow(clientIP(r)) {
				utils.JSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				logger.Warn("rate_limited", "path", r.URL.Path, "remote", r.RemoteAddr)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the session credential from the Authorization
// header. Missing or malformed headers yield an empty token; engines
// turn that into an AccessError.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func originAllowed(origin string, allowed []string) bool {
	if len(allowed) == 0 {
		return false
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func ipWhitelisted(ip string, list []string) bool {
	for _, w := range list {
		if ip == w {
			return true
		}
	}
	return false
}
