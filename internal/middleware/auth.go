// Copyright (c) 2025 Vlah Software House. All rights reserved.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"inkwell/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// UserKey is the context key for the authenticated user's token data.
const UserKey contextKey = "user"

// BearerAuth resolves the Authorization bearer token against the token
// store and places the token data in the request context. It does NOT
// enforce authentication; unauthenticated requests pass through without
// user data.
func BearerAuth(store *token.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerToken(r)
			if tok == "" {
				next.ServeHTTP(w, r)
				return
			}

			data, err := store.Get(r.Context(), tok)
			if err != nil || data == nil {
				// Invalid or expired token, treat as unauthenticated.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, data)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth returns 401 for requests without a valid bearer token.
// Must be applied after BearerAuth in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			writeJSONError(w, http.StatusUnauthorized, "Unauthenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns 403 unless the authenticated user holds the admin
// or super_admin role. Must be applied after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromCtx(r.Context())
		if user == nil || (user.Role != "admin" && user.Role != "super_admin") {
			writeJSONError(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromCtx extracts the authenticated user's token data from the
// request context. Returns nil for unauthenticated requests.
func UserFromCtx(ctx context.Context) *token.Data {
	data, _ := ctx.Value(UserKey).(*token.Data)
	return data
}

// BearerToken returns the raw token presented on the request, if any.
// Handlers use this to revoke the token on logout.
func BearerToken(r *http.Request) string {
	return bearerToken(r)
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
