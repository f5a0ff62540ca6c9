// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"time"
)

var ErrInvalidFolder = errors.New("invalid upload folder")

var folderRe = regexp.MustCompile(`^[A-Za-z0-9_-]+(/[A-Za-z0-9_-]+)*$`)

// Store uploads image blobs and returns their public URL.
type Store interface {
	Upload(ctx context.Context, folder string, r io.Reader, contentType string) (string, error)
}

// ObjectKey names an upload made at t: <folder>/<unix millis>_image.jpg.
func ObjectKey(folder string, t time.Time) (string, error) {
	folder = path.Clean(folder)
	if !folderRe.MatchString(folder) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFolder, folder)
	}
	return fmt.Sprintf("%s/%d_image.jpg", folder, t.UnixMilli()), nil
}
