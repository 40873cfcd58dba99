// Package auth guards the API with static shared secrets.
//
// TWO SECRETS, TWO HEADERS:
//   - the API key protects every entry/category/tag route. Clients send it as
//     "Authorization: Bearer <key>" or as "X-API-Key: <key>".
//   - the Telegram webhook secret is the value registered with setWebhook;
//     Telegram echoes it in "X-Telegram-Bot-Api-Secret-Token" on every update.
//
// An empty secret disables its check, which keeps local development friction
// free. Comparisons run in constant time.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const (
	HeaderAPIKey         = "X-API-Key"
	HeaderTelegramSecret = "X-Telegram-Bot-Api-Secret-Token"
)

const unauthorizedBody = `{"error":"unauthorized","message":"unauthorized"}` + "\n"

// RequireAPIKey rejects requests that do not carry key. With an empty key
// every request passes.
func RequireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !matches(presentedAPIKey(r), key) {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireTelegramSecret rejects webhook calls whose secret header does not
// equal secret. With an empty secret every call passes.
func RequireTelegramSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !matches(r.Header.Get(HeaderTelegramSecret), secret) {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// presentedAPIKey reads the bearer token first, then the X-API-Key header.
func presentedAPIKey(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.Header.Get(HeaderAPIKey)
}

func matches(got, want string) bool {
	if got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(unauthorizedBody))
}
