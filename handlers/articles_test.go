// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/testutil"
)

func TestArticleList(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	h := NewArticleHandler(env.Portal, testutil.GetTestConfig())

	base := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	testutil.CreateTestArticle(t, env.Portal, "Liga Mayor", "Deportes", base)
	testutil.CreateTestArticle(t, env.Portal, "Tasa de Cambio", "Economía", base.Add(time.Hour))
	testutil.CreateTestArticle(t, env.Portal, "Final del Torneo", "Deportes", base.Add(2*time.Hour))

	testCases := []struct {
		name           string
		query          string
		expectedStatus int
		expectedTitles []string
	}{
		{"all articles newest first", "", http.StatusOK, []string{"Final del Torneo", "Tasa de Cambio", "Liga Mayor"}},
		{"home means all", "?category=Inicio", http.StatusOK, []string{"Final del Torneo", "Tasa de Cambio", "Liga Mayor"}},
		{"one category", "?category=Deportes", http.StatusOK, []string{"Final del Torneo", "Liga Mayor"}},
		{"empty category", "?category=Opini%C3%B3n", http.StatusOK, []string{}},
		{"unknown category", "?category=Clima", http.StatusBadRequest, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(h.List, testutil.MakeRequest("GET", "/articles"+tc.query, nil, nil))
			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedStatus != http.StatusOK {
				return
			}

			var views []models.ArticleView
			testutil.AssertJSON(t, w, &views)
			if len(views) != len(tc.expectedTitles) {
				t.Fatalf("Expected %d articles, got %d", len(tc.expectedTitles), len(views))
			}
			for i, title := range tc.expectedTitles {
				if views[i].Title != title {
					t.Errorf("Position %d: expected '%s', got '%s'", i, title, views[i].Title)
				}
			}
		})
	}

	t.Run("views are complete", func(t *testing.T) {
		w := serve(h.List, testutil.MakeRequest("GET", "/articles?category=Econom%C3%ADa", nil, nil))
		var views []models.ArticleView
		testutil.AssertJSON(t, w, &views)
		if len(views) != 1 {
			t.Fatalf("Expected 1 article, got %d", len(views))
		}

		v := views[0]
		if v.ImageURL != models.FallbackImageURL {
			t.Errorf("Expected fallback image, got '%s'", v.ImageURL)
		}
		if v.Slug != "tasa-de-cambio" {
			t.Errorf("Expected slug 'tasa-de-cambio', got '%s'", v.Slug)
		}
		if v.ShareURL != "http://localhost:3318/noticia/tasa-de-cambio" {
			t.Errorf("Unexpected share URL '%s'", v.ShareURL)
		}
		if v.Date != "15 de Mayo, 2024" {
			t.Errorf("Expected display date '15 de Mayo, 2024', got '%s'", v.Date)
		}
	})
}

func TestArticleBySlug(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	h := NewArticleHandler(env.Portal, testutil.GetTestConfig())
	id := testutil.CreateTestArticle(t, env.Portal, "Elecciones 2024", "Nacionales", time.Now())

	get := func(slug string) *http.Request {
		req := testutil.MakeRequest("GET", "/articles/"+slug, nil, nil)
		req.SetPathValue("slug", slug)
		return req
	}

	w := serve(h.GetBySlug, get("elecciones-2024"))
	testutil.AssertStatus(t, w, http.StatusOK)
	var view models.ArticleView
	testutil.AssertJSON(t, w, &view)
	if view.ID != id {
		t.Errorf("Expected article %s, got %s", id, view.ID)
	}

	t.Run("unknown slug", func(t *testing.T) {
		w := serve(h.GetBySlug, get("no-existe"))
		testutil.AssertStatus(t, w, http.StatusNotFound)

		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Error != "Not Found" || resp.Message != "Article not found" {
			t.Errorf("Unexpected error body: %+v", resp)
		}
	})

	t.Run("retitle moves the slug", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/admin/articles/"+id, map[string]string{
			"title": "Resultados Finales",
			"slug":  "ignored",
		}, nil)
		req.SetPathValue("id", id)
		w := serve(h.Update, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var updated models.ArticleView
		testutil.AssertJSON(t, w, &updated)
		if updated.Slug != "resultados-finales" {
			t.Errorf("Expected slug 'resultados-finales', got '%s'", updated.Slug)
		}

		testutil.AssertStatus(t, serve(h.GetBySlug, get("resultados-finales")), http.StatusOK)
		testutil.AssertStatus(t, serve(h.GetBySlug, get("elecciones-2024")), http.StatusNotFound)
		testutil.AssertStatus(t, serve(h.GetBySlug, get("ignored")), http.StatusNotFound)
	})
}

func TestCreateArticle(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	h := NewArticleHandler(env.Portal, testutil.GetTestConfig())

	testCases := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"valid article", models.Article{Title: "Nuevo Estadio", Category: "Deportes"}, http.StatusCreated},
		{"missing title", models.Article{Title: "  ", Category: "Deportes"}, http.StatusBadRequest},
		{"unknown category", models.Article{Title: "Lluvias", Category: "Clima"}, http.StatusBadRequest},
		{"invalid JSON", "not an article", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(h.Create, testutil.MakeRequest("POST", "/admin/articles", tc.body, nil))
			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedStatus == http.StatusCreated {
				var resp models.CreatedResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ID == "" {
					t.Error("Expected an article ID")
				}
			}
		})
	}
}

func TestArticleUpdateAndDelete(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	h := NewArticleHandler(env.Portal, testutil.GetTestConfig())
	id := testutil.CreateTestArticle(t, env.Portal, "Temporal", "Opinión", time.Now())

	t.Run("update missing article", func(t *testing.T) {
		req := testutil.MakeRequest("PUT", "/admin/articles/missing", map[string]bool{"isViral": true}, nil)
		req.SetPathValue("id", "missing")
		testutil.AssertStatus(t, serve(h.Update, req), http.StatusNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		req := testutil.MakeRequest("DELETE", "/admin/articles/"+id, nil, nil)
		req.SetPathValue("id", id)
		testutil.AssertStatus(t, serve(h.Delete, req), http.StatusNoContent)

		get := testutil.MakeRequest("GET", "/articles/temporal", nil, nil)
		get.SetPathValue("slug", "temporal")
		testutil.AssertStatus(t, serve(h.GetBySlug, get), http.StatusNotFound)
	})
}
