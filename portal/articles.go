// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package portal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/newsdesk/docstore"
	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/slug"
	"github.com/danielhkuo/newsdesk/syncstore"
)

var spanishMonths = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// DisplayDate formats t the way article bylines show it, e.g.
// "15 de Mayo, 2024".
func DisplayDate(t time.Time) string {
	return fmt.Sprintf("%d de %s, %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}

// ListArticles returns articles newest first, optionally limited to one
// category.
func (s *Service) ListArticles(ctx context.Context, category string) ([]models.Article, error) {
	if category == "" {
		return fetchAll[models.Article](ctx, s, models.CollectionNews)
	}
	docs, err := s.docs.Query(ctx, models.CollectionNews, docstore.Query{
		Where:   []docstore.Filter{{Field: "category", Value: category}},
		OrderBy: "publishedAt",
		Desc:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("list articles in %s: %w", category, err)
	}
	return syncstore.Decode[models.Article](docs), nil
}

// GetArticle reads one article by id.
func (s *Service) GetArticle(ctx context.Context, id string) (models.Article, error) {
	return fetchOne[models.Article](ctx, s, models.CollectionNews, id)
}

// CreateArticle stores a new article with its slug derived from the
// title. A missing publish time defaults to now.
func (s *Service) CreateArticle(ctx context.Context, a models.Article) (string, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return "", invalid("title is required")
	}
	if a.Category != "" && !slug.IsCategory(a.Category) {
		return "", invalid("unknown category %q", a.Category)
	}

	a.ID = ""
	a.Slug = slug.Make(a.Title)
	if a.PublishedAt.IsZero() {
		a.PublishedAt = models.NewTimestamp(s.now())
	}
	if a.Date == "" {
		a.Date = DisplayDate(a.PublishedAt.Time)
	}

	id, err := s.store.Write(ctx, models.CollectionNews, syncstore.NewID, a)
	s.invalidateSlugs()
	if err != nil {
		return "", fmt.Errorf("create article: %w", err)
	}
	return id, nil
}

// UpdateArticle merges patch into an article. The slug is never taken
// from the patch; it is recomputed when the title changes.
func (s *Service) UpdateArticle(ctx context.Context, id string, patch models.ArticlePatch) error {
	patch.Slug = nil
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return invalid("title cannot be empty")
		}
		sl := slug.Make(title)
		patch.Title = &title
		patch.Slug = &sl
	}
	if patch.Category != nil && *patch.Category != "" && !slug.IsCategory(*patch.Category) {
		return invalid("unknown category %q", *patch.Category)
	}

	_, err := s.store.Write(ctx, models.CollectionNews, id, patch)
	s.invalidateSlugs()
	if err != nil {
		return mapNotFound(err, "update article "+id)
	}
	return nil
}

func (s *Service) DeleteArticle(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, models.CollectionNews, id)
	s.invalidateSlugs()
	if err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return nil
}

// FindBySlug returns the most recently published article whose slug is
// exactly sl.
func (s *Service) FindBySlug(ctx context.Context, sl string) (models.Article, error) {
	if sl == "" {
		return models.Article{}, fmt.Errorf("article %q: %w", sl, ErrNotFound)
	}
	if cached, ok := s.slugs.Get(sl); ok {
		return cached.(models.Article), nil
	}

	gen := s.slugGen.Load()
	docs, err := s.docs.Query(ctx, models.CollectionNews, docstore.Query{
		Where:   []docstore.Filter{{Field: "slug", Value: sl}},
		OrderBy: "publishedAt",
		Desc:    true,
		Limit:   1,
	})
	if err != nil {
		return models.Article{}, fmt.Errorf("find article %q: %w", sl, err)
	}
	articles := syncstore.Decode[models.Article](docs)
	if len(articles) == 0 {
		return models.Article{}, fmt.Errorf("article %q: %w", sl, ErrNotFound)
	}

	// Skip caching if an article changed while the query ran.
	if s.slugGen.Load() == gen {
		s.slugs.SetDefault(sl, articles[0])
	}
	return articles[0], nil
}

// ActiveCategories returns the home category followed by every category
// that has at least one article, in menu order.
func (s *Service) ActiveCategories(ctx context.Context) ([]string, error) {
	articles, err := s.ListArticles(ctx, "")
	if err != nil {
		return nil, err
	}
	used := make(map[string]bool, len(slug.Categories))
	for _, a := range articles {
		used[a.Category] = true
	}
	out := []string{slug.Home}
	for _, c := range slug.Categories {
		if c != slug.Home && used[c] {
			out = append(out, c)
		}
	}
	return out, nil
}
