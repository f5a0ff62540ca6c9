// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/newsdesk/middleware"
	"github.com/danielhkuo/newsdesk/portal"
)

// writeServiceError maps a portal error to a response. Anything that is
// not a known domain error is logged and reported as a database error.
func writeServiceError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, portal.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, notFound)
	case errors.Is(err, portal.ErrInvalid):
		middleware.ErrorResponse(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, portal.ErrUnknownConfig):
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown config key")
	case errors.Is(err, portal.ErrCandidateNotFound):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Candidate not found")
	case errors.Is(err, portal.ErrPollClosed):
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is not open for voting")
	case errors.Is(err, portal.ErrAlreadySubscribed):
		middleware.ErrorResponse(w, http.StatusConflict, "Already subscribed")
	default:
		slog.Error("store operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// validationMessage strips the sentinel prefix from a validation error.
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, portal.ErrInvalid.Error()+": "); i >= 0 {
		return msg[i+len(portal.ErrInvalid.Error())+2:]
	}
	return msg
}
