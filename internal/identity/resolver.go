package identity

import (
	"net"
	"net/http"
	"strings"
)

// Header names inspected when deriving the identity key.
const (
	HeaderUserID       = "X-User-ID"
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderRealIP       = "X-Real-IP"
)

// Key prefixes distinguishing authenticated principals from anonymous
// callers keyed by address.
const (
	UserPrefix = "user:"
	IPPrefix   = "ip:"
)

// Resolve derives the identity key for a request. Priority: trusted
// X-User-ID header, first X-Forwarded-For entry, X-Real-IP, and finally
// the transport remote address. The forwarded headers are only as
// trustworthy as the proxy topology in front of the gateway; deployments
// not behind a trusted proxy are keying on client-controlled input.
// Always returns a non-empty key.
func Resolve(r *http.Request) string {
	if userID := r.Header.Get(HeaderUserID); userID != "" {
		return UserPrefix + userID
	}
	return IPPrefix + clientIP(r)
}

// clientIP extracts the client address from proxy headers or the
// connection itself.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get(HeaderForwardedFor); xff != "" {
		// X-Forwarded-For can contain multiple IPs; the first one is the
		// originating client.
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := r.Header.Get(HeaderRealIP); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
