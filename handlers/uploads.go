// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bufio"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/newsdesk/blob"
	"github.com/danielhkuo/newsdesk/middleware"
	"github.com/danielhkuo/newsdesk/models"
)

// MaxUploadSize caps a single image upload.
const MaxUploadSize = 5 << 20

const defaultUploadFolder = "noticias"

type UploadHandler struct {
	blobs blob.Store
}

func NewUploadHandler(blobs blob.Store) *UploadHandler {
	return &UploadHandler{blobs: blobs}
}

// Upload handles POST /admin/uploads
// Multipart form with an image in "file" and an optional "folder".
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart framing around the file
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+64<<10)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge,
				"Image must be at most "+humanize.IBytes(MaxUploadSize))
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	if header.Size > MaxUploadSize {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge,
			"Image must be at most "+humanize.IBytes(MaxUploadSize))
		return
	}

	// Sniff the content rather than trusting the client's header
	br := bufio.NewReaderSize(file, 512)
	head, _ := br.Peek(512)
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		middleware.ErrorResponse(w, http.StatusUnsupportedMediaType, "Only image uploads are accepted")
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		folder = defaultUploadFolder
	}

	url, err := h.blobs.Upload(r.Context(), folder, br, contentType)
	if errors.Is(err, blob.ErrInvalidFolder) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid folder")
		return
	}
	if err != nil {
		slog.Error("failed to store upload", "error", err, "folder", folder)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	slog.Info("image uploaded", "folder", folder, "size", humanize.IBytes(uint64(header.Size)), "url", url)
	middleware.JSONResponse(w, http.StatusCreated, models.UploadResponse{URL: url})
}
