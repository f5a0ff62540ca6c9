// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable ParseFlags reads so the host
// environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "SESSION_SECRET", "SECURE_COOKIES",
		"PUBLIC_URL", "BLOB_BACKEND", "UPLOAD_DIR", "S3_BUCKET", "S3_REGION",
		"REDIS_ADDR", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL",
	} {
		t.Setenv(k, "")
	}
}

func noEnvFile(t *testing.T) string {
	return "-env=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SECURE_COOKIES", "true")

	cfg, err := ParseFlags([]string{noEnvFile(t)})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
	if !cfg.SecureCookies {
		t.Error("expected secure cookies")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := ParseFlags([]string{noEnvFile(t)})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"database url", cfg.DatabaseURL, "file:newsdesk.db"},
		{"database type", cfg.DatabaseType, "sqlite"},
		{"public url", cfg.PublicURL, "http://localhost:3318"},
		{"blob backend", cfg.BlobBackend, BlobLocal},
		{"upload dir", cfg.UploadDir, "uploads"},
		{"google redirect", cfg.GoogleRedirectURL, "http://localhost:3318/admin/login/google/callback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.GoogleEnabled() {
		t.Error("google sign-in should be disabled without credentials")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{noEnvFile(t), "-p", "8080", "-d", "file:test.db", "-session-secret", "s1", "-public-url", "https://example.do/"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.PublicURL != "https://example.do" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.PublicURL)
	}
}

func TestParseFlags_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("SESSION_SECRET")
	os.Unsetenv("REDIS_ADDR")

	path := filepath.Join(t.TempDir(), ".env")
	content := "SESSION_SECRET=from-file\nREDIS_ADDR=localhost:6379\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-env", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SessionSecret != "from-file" {
		t.Errorf("expected secret from .env, got %q", cfg.SessionSecret)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("expected redis addr from .env, got %q", cfg.RedisAddr)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"bad port", map[string]string{"SESSION_SECRET": "s", "PORT": "abc"}},
		{"bad secure flag", map[string]string{"SESSION_SECRET": "s", "SECURE_COOKIES": "maybe"}},
		{"unknown blob backend", map[string]string{"SESSION_SECRET": "s", "BLOB_BACKEND": "ftp"}},
		{"s3 without bucket", map[string]string{"SESSION_SECRET": "s", "BLOB_BACKEND": "s3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags([]string{noEnvFile(t)}); err == nil {
				t.Error("expected error")
			}
		})
	}
}
