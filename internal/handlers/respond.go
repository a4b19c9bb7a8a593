// Copyright (c) 2025 Vlah Software House. All rights reserved.

// Package handlers implements the HTTP handlers for the admin and
// public JSON APIs.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// respondMessage writes a {"message": ...} response.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondNotFound writes the standard 404 body.
func respondNotFound(w http.ResponseWriter) {
	respondMessage(w, http.StatusNotFound, "Not Found")
}

// respondServerError logs the error and writes a generic 500 body.
func respondServerError(w http.ResponseWriter, what string, err error) {
	slog.Error(what, "error", err)
	respondMessage(w, http.StatusInternalServerError, "Internal Server Error")
}

// respondValidation writes a 422 with per-field error messages, the
// shape the admin and public SPAs expect.
func respondValidation(w http.ResponseWriter, errs errorBag) {
	respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}
