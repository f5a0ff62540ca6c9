// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/newsdesk/auth"
	"github.com/danielhkuo/newsdesk/cliparse"
	"github.com/danielhkuo/newsdesk/middleware"
	"github.com/danielhkuo/newsdesk/models"
)

// GoogleSignIn is the federated sign-in flow; *auth.Google implements it.
type GoogleSignIn interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (email string, err error)
}

type AdminHandler struct {
	admins   *auth.Admins
	sessions *auth.Sessions
	google   GoogleSignIn
	cfg      cliparse.Config
}

// NewAdminHandler returns the admin account handler. google may be nil
// when federated sign-in is not configured.
func NewAdminHandler(admins *auth.Admins, sessions *auth.Sessions, google GoogleSignIn, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{admins: admins, sessions: sessions, google: google, cfg: cfg}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	admin, err := h.admins.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		slog.Warn("admin sign-in rejected", "client", auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSecret))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		slog.Error("failed to authenticate admin", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := h.sessions.Login(w, r, admin.ID); err != nil {
		slog.Error("failed to save session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("admin signed in", "admin_id", admin.ID)
	middleware.JSONResponse(w, http.StatusOK, admin)
}

// Logout handles POST /admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		slog.Error("failed to clear session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /admin/me
func (h *AdminHandler) Me(w http.ResponseWriter, r *http.Request) {
	admin, ok := auth.AdminFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in required")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, admin)
}

// ChangePassword handles POST /admin/password
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	admin, ok := auth.AdminFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in required")
		return
	}

	var req models.ChangePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := h.admins.ChangePassword(r.Context(), admin.ID, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		middleware.ErrorResponse(w, http.StatusForbidden, "Current password is incorrect")
		return
	case errors.Is(err, auth.ErrWeakPassword):
		middleware.ErrorResponse(w, http.StatusBadRequest, auth.ErrWeakPassword.Error())
		return
	case err != nil:
		slog.Error("failed to change password", "error", err, "admin_id", admin.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("admin password changed", "admin_id", admin.ID)
	w.WriteHeader(http.StatusNoContent)
}

// GoogleLogin handles GET /admin/login/google
func (h *AdminHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	state, err := h.sessions.BeginState(w, r)
	if err != nil {
		slog.Error("failed to start google sign-in", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback handles GET /admin/login/google/callback
// Only existing admin accounts may sign in; Google never creates one.
func (h *AdminHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	q := r.URL.Query()
	if err := h.sessions.CheckState(w, r, q.Get("state")); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid sign-in state")
		return
	}
	if q.Get("code") == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Sign-in was cancelled")
		return
	}

	email, err := h.google.Exchange(r.Context(), q.Get("code"))
	if errors.Is(err, auth.ErrEmailNotVerified) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Google account email is not verified")
		return
	}
	if err != nil {
		slog.Error("google sign-in failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Google sign-in failed")
		return
	}

	admin, err := h.admins.FindByEmail(r.Context(), email)
	if errors.Is(err, auth.ErrAdminNotFound) {
		middleware.ErrorResponse(w, http.StatusForbidden, "No admin account for this Google account")
		return
	}
	if err != nil {
		slog.Error("failed to find admin", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !admin.GoogleLinked {
		if err := h.admins.MarkGoogleLinked(r.Context(), admin.ID); err != nil {
			slog.Warn("failed to mark google link", "error", err, "admin_id", admin.ID)
		}
	}
	if err := h.sessions.Login(w, r, admin.ID); err != nil {
		slog.Error("failed to save session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("admin signed in with google", "admin_id", admin.ID)
	http.Redirect(w, r, h.cfg.PublicURL+"/admin", http.StatusFound)
}
