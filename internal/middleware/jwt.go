package middleware

import "strings"

const bearerPrefix = "Bearer "

// bearerToken extracts the raw token from an Authorization header value.
// A missing header and a header without the "Bearer " prefix both yield
// ok=false; the gate treats that exactly like an invalid token.
func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if raw == "" {
		return "", false
	}
	return raw, true
}
