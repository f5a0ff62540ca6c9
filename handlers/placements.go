// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/newsdesk/middleware"
	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/portal"
)

// PlacementHandler serves sponsor banners and ad slots.
type PlacementHandler struct {
	svc *portal.Service
}

func NewPlacementHandler(svc *portal.Service) *PlacementHandler {
	return &PlacementHandler{svc: svc}
}

// ListSponsors handles GET /sponsors?active=true
func (h *PlacementHandler) ListSponsors(w http.ResponseWriter, r *http.Request) {
	sponsors, err := h.svc.ListSponsors(r.Context(), r.URL.Query().Get("active") == "true")
	if err != nil {
		writeServiceError(w, err, "Sponsor not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sponsors)
}

// CreateSponsor handles POST /admin/sponsors
func (h *PlacementHandler) CreateSponsor(w http.ResponseWriter, r *http.Request) {
	var req models.Sponsor
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := h.svc.CreateSponsor(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Sponsor not found")
		return
	}

	slog.Info("sponsor created", "sponsor_id", id)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// UpdateSponsor handles PUT /admin/sponsors/{id}
func (h *PlacementHandler) UpdateSponsor(w http.ResponseWriter, r *http.Request) {
	var patch models.SponsorPatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.UpdateSponsor(r.Context(), r.PathValue("id"), patch); err != nil {
		writeServiceError(w, err, "Sponsor not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSponsor handles DELETE /admin/sponsors/{id}
func (h *PlacementHandler) DeleteSponsor(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSponsor(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err, "Sponsor not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAds handles GET /ads
func (h *PlacementHandler) ListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.svc.ListAds(r.Context())
	if err != nil {
		writeServiceError(w, err, "Ad not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, ads)
}

// CreateAd handles POST /admin/ads
func (h *PlacementHandler) CreateAd(w http.ResponseWriter, r *http.Request) {
	var req models.AdSlot
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := h.svc.CreateAd(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Ad not found")
		return
	}

	slog.Info("ad slot created", "ad_id", id, "size", req.Size)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// UpdateAd handles PUT /admin/ads/{id}
func (h *PlacementHandler) UpdateAd(w http.ResponseWriter, r *http.Request) {
	var patch models.AdSlotPatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.UpdateAd(r.Context(), r.PathValue("id"), patch); err != nil {
		writeServiceError(w, err, "Ad not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAd handles DELETE /admin/ads/{id}
func (h *PlacementHandler) DeleteAd(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAd(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err, "Ad not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
