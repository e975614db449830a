package tokenizer

import "strings"

// CookieName is the cookie carrying the session token.
const CookieName = "auth-token"

// ExtractToken returns the value of the first cookie called name in a raw
// Cookie header. The value is returned as-is, without decoding.
func ExtractToken(header, name string) (string, bool) {
	if header == "" || name == "" {
		return "", false
	}
	for _, part := range strings.Split(header, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || k != name {
			continue
		}
		return v, true
	}
	return "", false
}
