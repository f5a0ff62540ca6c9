// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/newsdesk/auth"
	"github.com/danielhkuo/newsdesk/cliparse"
	"github.com/danielhkuo/newsdesk/middleware"
	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/portal"
	"github.com/danielhkuo/newsdesk/slug"
)

type ArticleHandler struct {
	svc *portal.Service
	cfg cliparse.Config
}

func NewArticleHandler(svc *portal.Service, cfg cliparse.Config) *ArticleHandler {
	return &ArticleHandler{svc: svc, cfg: cfg}
}

// view fills in the fallback image and the public share link.
func (h *ArticleHandler) view(a models.Article) models.ArticleView {
	if a.ImageURL == "" {
		a.ImageURL = models.FallbackImageURL
	}
	return models.ArticleView{
		Article:  a,
		ShareURL: h.cfg.PublicURL + "/noticia/" + a.Slug,
	}
}

// List handles GET /articles?category=
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == slug.Home {
		category = ""
	}
	if category != "" && !slug.IsCategory(category) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown category")
		return
	}

	articles, err := h.svc.ListArticles(r.Context(), category)
	if err != nil {
		writeServiceError(w, err, "Article not found")
		return
	}

	views := make([]models.ArticleView, len(articles))
	for i, a := range articles {
		views[i] = h.view(a)
	}
	middleware.JSONResponse(w, http.StatusOK, views)
}

// GetBySlug handles GET /articles/{slug}
func (h *ArticleHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	article, err := h.svc.FindBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, err, "Article not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, h.view(article))
}

// Create handles POST /admin/articles
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.Article
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := h.svc.CreateArticle(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "Article not found")
		return
	}

	admin, _ := auth.AdminFromContext(r.Context())
	slog.Info("article created", "article_id", id, "admin_id", admin.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: id})
}

// Update handles PUT /admin/articles/{id}
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch models.ArticlePatch
	if err := middleware.ParseJSONBody(r, &patch); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.UpdateArticle(r.Context(), id, patch); err != nil {
		writeServiceError(w, err, "Article not found")
		return
	}

	article, err := h.svc.GetArticle(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Article not found")
		return
	}

	slog.Info("article updated", "article_id", id, "slug", article.Slug)
	middleware.JSONResponse(w, http.StatusOK, h.view(article))
}

// Delete handles DELETE /admin/articles/{id}
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteArticle(r.Context(), id); err != nil {
		writeServiceError(w, err, "Article not found")
		return
	}

	slog.Info("article deleted", "article_id", id)
	w.WriteHeader(http.StatusNoContent)
}
