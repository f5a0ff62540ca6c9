// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps uploads on disk and serves them under baseURL.
type LocalStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// NewLocalStore stores files below dir. baseURL is the public URL the
// directory is served at, e.g. "http://localhost:3318/uploads".
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}, nil
}

func (s *LocalStore) Upload(ctx context.Context, folder string, r io.Reader, _ string) (string, error) {
	folder = path.Clean(folder)
	if _, err := ObjectKey(folder, time.Time{}); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Join(s.dir, filepath.FromSlash(folder)), 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}

	// Two uploads in the same millisecond get consecutive timestamps.
	t := s.now()
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		key, err := ObjectKey(folder, t)
		if err != nil {
			return "", err
		}
		f, err := os.OpenFile(filepath.Join(s.dir, filepath.FromSlash(key)), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			t = t.Add(time.Millisecond)
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create blob: %w", err)
		}

		if _, err := io.Copy(f, r); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("write blob: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("write blob: %w", err)
		}
		return s.baseURL + "/" + key, nil
	}
}

// Handler serves the stored files.
func (s *LocalStore) Handler() http.Handler {
	return http.FileServer(http.Dir(s.dir))
}
