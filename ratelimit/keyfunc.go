package ratelimit

import (
	"net/http"
	"strings"
)

// UnknownClient is the shared bucket for requests without identifying headers.
const UnknownClient = "unknown"

// ClientKey identifies the caller by the first X-Forwarded-For entry, then
// X-Real-IP. Requests carrying neither share the UnknownClient budget.
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return UnknownClient
}
