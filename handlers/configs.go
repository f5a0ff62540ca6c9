// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/newsdesk/middleware"
	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/portal"
)

type ConfigHandler struct {
	svc *portal.Service
}

func NewConfigHandler(svc *portal.Service) *ConfigHandler {
	return &ConfigHandler{svc: svc}
}

// Get handles GET /config/{key}
// For largePopup, ?category= resolves the per-category override.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if category := r.URL.Query().Get("category"); key == models.ConfigLargePopup && category != "" {
		cfg, err := h.svc.LargePopupConfig(r.Context())
		if err != nil {
			writeServiceError(w, err, "Config not found")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, cfg.ForCategory(category))
		return
	}

	cfg, err := h.svc.Config(r.Context(), key)
	if err != nil {
		writeServiceError(w, err, "Config not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, cfg)
}

// Save handles PUT /admin/config/{key}
// The body is a partial document; omitted fields keep their values.
func (h *ConfigHandler) Save(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, middleware.MaxJSONBody))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	cfg, err := h.svc.SaveConfig(r.Context(), key, body)
	if err != nil {
		writeServiceError(w, err, "Config not found")
		return
	}

	slog.Info("config saved", "key", key)
	middleware.JSONResponse(w, http.StatusOK, cfg)
}
