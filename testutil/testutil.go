// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/newsdesk/auth"
	"github.com/danielhkuo/newsdesk/cliparse"
	"github.com/danielhkuo/newsdesk/db"
	"github.com/danielhkuo/newsdesk/docstore"
	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/notify"
	"github.com/danielhkuo/newsdesk/portal"
	"github.com/danielhkuo/newsdesk/syncstore"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// The file lives in t.TempDir and disappears with the test.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.SQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// Env is the full service stack over one test database.
type Env struct {
	DB       *sql.DB
	Notifier *notify.Local
	Docs     *docstore.Store
	Store    *syncstore.Store
	Portal   *portal.Service
	Admins   *auth.Admins
	Sessions *auth.Sessions
}

// SetupTestEnv wires a test database into every service. Everything is
// closed when the test ends.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	conn := SetupTestDB(t)
	n := notify.NewLocal()
	docs := docstore.New(conn, db.SQLite, n)
	store := syncstore.New(docs)
	svc := portal.NewService(docs, store)
	cfg := GetTestConfig()

	t.Cleanup(func() {
		svc.Close()
		store.Close()
		n.Close()
	})

	return &Env{
		DB:       conn,
		Notifier: n,
		Docs:     docs,
		Store:    store,
		Portal:   svc,
		Admins:   auth.NewAdmins(conn, db.SQLite),
		Sessions: auth.NewSessions(cfg.SessionSecret, false),
	}
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "file:test.db",
		DatabaseType:  "sqlite",
		SessionSecret: "test-session-secret",
		PublicURL:     "http://localhost:3318",
		BlobBackend:   cliparse.BlobLocal,
		UploadDir:     "uploads",
	}
}

// CreateTestArticle stores an article and returns its ID
func CreateTestArticle(t *testing.T, svc *portal.Service, title, category string, publishedAt time.Time) string {
	t.Helper()

	id, err := svc.CreateArticle(context.Background(), models.Article{
		Title:       title,
		Category:    category,
		Excerpt:     "Resumen de " + title,
		Author:      "Redacción",
		PublishedAt: models.NewTimestamp(publishedAt),
	})
	if err != nil {
		t.Fatalf("Failed to create test article: %v", err)
	}
	return id
}

// CreateTestPoll stores a poll with one candidate per name, each starting
// at votes[i] (or zero), and returns the stored poll
func CreateTestPoll(t *testing.T, env *Env, active bool, names []string, votes ...int) models.Poll {
	t.Helper()
	ctx := context.Background()

	candidates := make([]models.Candidate, len(names))
	for i, name := range names {
		candidates[i] = models.Candidate{ID: "c" + string(rune('a'+i)), Name: name}
	}
	id, err := env.Portal.CreatePoll(ctx, models.Poll{
		Title:      "Encuesta de prueba",
		IsActive:   active,
		Candidates: candidates,
	})
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for i, n := range votes {
		for j := 0; j < n; j++ {
			// votes only change through Vote, so reopen closed polls briefly
			if !active {
				if err := env.Portal.UpdatePoll(ctx, id, models.PollPatch{IsActive: boolPtr(true)}); err != nil {
					t.Fatalf("Failed to open test poll: %v", err)
				}
			}
			if err := env.Portal.Vote(ctx, id, candidates[i].ID); err != nil {
				t.Fatalf("Failed to seed vote: %v", err)
			}
			if !active {
				if err := env.Portal.UpdatePoll(ctx, id, models.PollPatch{IsActive: boolPtr(false)}); err != nil {
					t.Fatalf("Failed to close test poll: %v", err)
				}
			}
		}
	}

	poll, err := env.Portal.GetPoll(ctx, id)
	if err != nil {
		t.Fatalf("Failed to read test poll: %v", err)
	}
	return poll
}

func boolPtr(b bool) *bool { return &b }

// CreateTestAdmin creates an admin account and returns it
func CreateTestAdmin(t *testing.T, env *Env, email, password string) auth.Admin {
	t.Helper()

	admin, err := env.Admins.Create(context.Background(), email, password, "Admin")
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}
	return admin
}

// AdminCookies signs adminID in and returns the session cookies
func AdminCookies(t *testing.T, env *Env, adminID string) []*http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	if err := env.Sessions.Login(w, httptest.NewRequest(http.MethodPost, "/admin/login", nil), adminID); err != nil {
		t.Fatalf("Failed to sign in test admin: %v", err)
	}
	return w.Result().Cookies()
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// WithCookies adds cookies to a request and returns it
func WithCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
