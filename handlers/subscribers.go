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

type SubscriberHandler struct {
	svc *portal.Service
}

func NewSubscriberHandler(svc *portal.Service) *SubscriberHandler {
	return &SubscriberHandler{svc: svc}
}

// Subscribe handles POST /subscribers
func (h *SubscriberHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.Subscribe(r.Context(), req.Email); err != nil {
		writeServiceError(w, err, "Subscriber not found")
		return
	}

	slog.Info("newsletter subscription added")
	middleware.JSONResponse(w, http.StatusCreated, map[string]string{"message": "Subscribed"})
}

// Check handles GET /admin/subscribers/check?email=
func (h *SubscriberHandler) Check(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	subscribed, err := h.svc.IsSubscribed(r.Context(), email)
	if err != nil {
		writeServiceError(w, err, "Subscriber not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SubscriptionStatus{Email: email, Subscribed: subscribed})
}

// List handles GET /admin/subscribers
func (h *SubscriberHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.ListSubscribers(r.Context())
	if err != nil {
		writeServiceError(w, err, "Subscriber not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, subs)
}
