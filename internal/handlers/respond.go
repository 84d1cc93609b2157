// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API: the public read surface,
// comment submission, and the authenticated admin endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"manassa/internal/comments"
	"manassa/internal/lifecycle"
)

// errorResponse is the JSON body for every failed request.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// respondError writes a plain error with the given status.
func respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}

// respondServiceError maps the typed errors of the lifecycle and
// comments packages onto HTTP statuses. Unknown errors are logged and
// reported as a 500 without leaking internals.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *lifecycle.ValidationError
	var terr *lifecycle.InvalidTransitionError

	switch {
	case errors.As(err, &verr):
		fields := make(map[string]string, len(verr.Fields))
		for _, f := range verr.Fields {
			fields[f.Field] = f.Reason
		}
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errorResponse{Error: "validation failed", Fields: fields})
	case errors.As(err, &terr):
		respondError(w, r, http.StatusConflict, terr.Error())
	case errors.Is(err, comments.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, comments.ErrCommentsDisabled):
		respondError(w, r, http.StatusForbidden, "comments are disabled for this content")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
