// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName   = "newsdesk_admin"
	sessionMaxAge = 7 * 24 * 60 * 60 // 7 days

	keyAdminID = "admin_id"
	keyState   = "oauth_state"
)

// Sessions keeps the signed-in admin in an encrypted cookie.
type Sessions struct {
	store *sessions.CookieStore
}

// NewSessions derives signing and encryption keys from secret.
func NewSessions(secret string, secure bool) *Sessions {
	store := sessions.NewCookieStore(
		DeriveKey(secret, "session-auth"),
		DeriveKey(secret, "session-enc"),
	)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return &Sessions{store: store}
}

// Get returns the request's session. A cookie that fails to decode gives
// a fresh empty session.
func (s *Sessions) get(r *http.Request) *sessions.Session {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		sess, _ = s.store.New(r, sessionName)
	}
	return sess
}

// Login marks adminID as signed in.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, adminID string) error {
	sess := s.get(r)
	sess.Values[keyAdminID] = adminID
	delete(sess.Values, keyState)
	return sess.Save(r, w)
}

// Logout ends the session.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	sess := s.get(r)
	sess.Values = map[interface{}]interface{}{}
	opts := *sess.Options
	opts.MaxAge = -1
	sess.Options = &opts
	return sess.Save(r, w)
}

// AdminID returns the signed-in admin's id.
func (s *Sessions) AdminID(r *http.Request) (string, bool) {
	id, ok := s.get(r).Values[keyAdminID].(string)
	return id, ok && id != ""
}

// BeginState stores a fresh sign-in state token and returns it.
func (s *Sessions) BeginState(w http.ResponseWriter, r *http.Request) (string, error) {
	state, err := GenerateToken()
	if err != nil {
		return "", err
	}
	sess := s.get(r)
	sess.Values[keyState] = state
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return state, nil
}

// CheckState consumes the stored state token and compares it to state.
func (s *Sessions) CheckState(w http.ResponseWriter, r *http.Request, state string) error {
	sess := s.get(r)
	want, _ := sess.Values[keyState].(string)
	delete(sess.Values, keyState)
	if err := sess.Save(r, w); err != nil {
		return err
	}
	if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(state)) != 1 {
		return ErrInvalidState
	}
	return nil
}

type contextKey struct{}

// WithAdmin returns a context carrying admin.
func WithAdmin(ctx context.Context, admin Admin) context.Context {
	return context.WithValue(ctx, contextKey{}, admin)
}

// AdminFromContext returns the admin placed by WithAdmin.
func AdminFromContext(ctx context.Context) (Admin, bool) {
	admin, ok := ctx.Value(contextKey{}).(Admin)
	return admin, ok
}
