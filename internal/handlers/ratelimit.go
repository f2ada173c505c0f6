package handlers

import (
	"net"
	"net/http"
	"strings"
)

const unknownClient = "unknown"

// RateLimiter is the minimal interface required to guard the contact endpoint.
type RateLimiter interface {
	Allow(key string) bool
}

func allowRequest(limiter RateLimiter, key string) bool {
	if limiter == nil {
		return true
	}
	return limiter.Allow(key)
}

// clientIP identifies the caller by the first X-Forwarded-For entry, then the
// connection address, then "unknown".
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	remote := strings.TrimSpace(r.RemoteAddr)
	host, _, err := net.SplitHostPort(remote)
	if err == nil && host != "" {
		return host
	}
	if remote != "" {
		return remote
	}
	return unknownClient
}
