// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/newsdesk/middleware"
	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/portal"
	"github.com/danielhkuo/newsdesk/slug"
)

type CategoryHandler struct {
	svc *portal.Service
}

func NewCategoryHandler(svc *portal.Service) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List handles GET /categories?active=true
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	names := slug.Categories
	if r.URL.Query().Get("active") == "true" {
		active, err := h.svc.ActiveCategories(r.Context())
		if err != nil {
			writeServiceError(w, err, "Category not found")
			return
		}
		names = active
	}

	views := make([]models.CategoryView, len(names))
	for i, name := range names {
		views[i] = models.CategoryView{Name: name, Path: slug.CategoryPath(name)}
	}
	middleware.JSONResponse(w, http.StatusOK, views)
}

// Resolve handles GET /categories/resolve?path=&current=
// An unknown path resolves to current.
func (h *CategoryHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "path is required")
		return
	}

	view := models.CategoryView{Name: slug.CategoryForPath(path, q.Get("current"))}
	if slug.IsCategory(view.Name) {
		view.Path = slug.CategoryPath(view.Name)
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}
