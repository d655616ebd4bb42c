package identity

import (
	"net/http"
	"strings"
)

const (
	Header          = "X-User"
	RequestIDHeader = "X-Request-ID"
	QueryParam      = "user"
)

// Normalize trims and lower-cases a user reference (email or UID).
func Normalize(user string) string {
	return strings.ToLower(strings.TrimSpace(user))
}

// FromRequest reads the caller from the X-User header, falling back to ?user=.
func FromRequest(r *http.Request) string {
	u := strings.TrimSpace(r.Header.Get(Header))
	if u == "" {
		u = r.URL.Query().Get(QueryParam)
	}
	return Normalize(u)
}
