package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/newthinker/chatrelay/internal/api/response"
	"github.com/newthinker/chatrelay/internal/core"
)

// APIKeyHeader is the header carrying the service shared secret.
const APIKeyHeader = "X-API-KEY"

// APIKeyAuth returns middleware that validates the X-API-KEY header against
// the secret returned by secret, which is consulted on every request.
// If the secret is empty, authentication is disabled and the header ignored.
func APIKeyAuth(secret func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := ""
			if secret != nil {
				apiKey = secret()
			}

			// Skip auth if no key configured
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(APIKeyHeader)
			if providedKey == "" ||
				subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				response.Error(w, http.StatusUnauthorized, core.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// StaticKey returns a secret function for a fixed key.
func StaticKey(key string) func() string {
	return func() string { return key }
}
