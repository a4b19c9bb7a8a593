// Copyright (c) 2025 Vlah Software House. All rights reserved.

package middleware

import "net/http"

// MethodOverride rewrites POST requests carrying a _method form field,
// _method query parameter, or X-HTTP-Method-Override header to the
// verb it names. Multipart clients can't send PUT bodies portably, so
// article updates with image uploads arrive as POST + _method=PUT.
// Only PUT, PATCH, and DELETE may be assumed this way.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			// PostFormValue parses urlencoded and multipart bodies; the
			// parsed form stays on the request for downstream handlers.
			override := r.PostFormValue("_method")
			if override == "" {
				override = r.URL.Query().Get("_method")
			}
			if override == "" {
				override = r.Header.Get("X-HTTP-Method-Override")
			}
			switch override {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = override
			}
		}
		next.ServeHTTP(w, r)
	})
}
