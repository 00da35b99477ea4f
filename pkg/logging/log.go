// Package logging holds the request-side logging helpers: one summary
// line per incoming request with credential-bearing headers masked.
package logging

import (
	"net/http"
	"strings"

	"huddle/pkg/logger"
)

// masked reports whether a header carries credentials and must never
// reach the logs.
func masked(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "proxy-authorization", "cookie", "set-cookie":
		return true
	}
	return false
}

// Headers flattens request headers for logging. Credential values are
// masked; repeated headers are joined.
func Headers(r *http.Request) map[string]string {
	out := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		if masked(name) {
			out[name] = "<masked>"
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// LogRequest writes one summary line for an incoming request.
func LogRequest(r *http.Request) {
	logger.Info("incoming_request",
		"method", r.Method,
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"remote", r.RemoteAddr,
		"headers", Headers(r),
	)
}
