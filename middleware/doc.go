// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote, request_id) and completion
(status, bytes, duration_ms).

# Server Stack

Stack wraps the mux once at startup:

	server := http.Server{
		Handler: middleware.Stack(mux, cfg.PublicURL),
	}

It adds chi's RequestID, RealIP and Recoverer around CORS. Only the
frontend's own origin (the scheme and host of PublicURL) is echoed with
credentials allowed; any other origin gets "*" without credentials, so the
admin session cookie never travels on a cross-site request.

# Admin Gate

	mux.HandleFunc("POST /admin/articles",
		middleware.WithLogging(middleware.RequireAdmin(sessions, admins, h.Create)))

RequireAdmin answers 401 without a valid session and otherwise puts the
admin in the request context (auth.AdminFromContext).

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies (capped at MaxJSONBody):

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Vote logs record a salted hash of it, never the address itself.
*/
package middleware
