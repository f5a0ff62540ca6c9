// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package portal_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/portal"
	"github.com/danielhkuo/newsdesk/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestDisplayDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC), "15 de Mayo, 2024"},
		{time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC), "1 de Enero, 2023"},
		{time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC), "31 de Diciembre, 2025"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, portal.DisplayDate(tt.in))
	}
}

func TestArticleSlugLifecycle(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()

	id := testutil.CreateTestArticle(t, env.Portal, "Elecciones 2024", "Nacionales", time.Now())

	a, err := env.Portal.GetArticle(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "elecciones-2024", a.Slug)
	assert.NotEmpty(t, a.Date)

	found, err := env.Portal.FindBySlug(ctx, "elecciones-2024")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	require.NoError(t, env.Portal.UpdateArticle(ctx, id, models.ArticlePatch{Title: ptr("Resultados Finales")}))

	found, err = env.Portal.FindBySlug(ctx, "resultados-finales")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, "Resultados Finales", found.Title)

	_, err = env.Portal.FindBySlug(ctx, "elecciones-2024")
	assert.True(t, errors.Is(err, portal.ErrNotFound), "old slug must stop resolving, got %v", err)
}

func TestUpdateArticle_IgnoresSlugInPatch(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()

	id := testutil.CreateTestArticle(t, env.Portal, "Béisbol Invernal", "Deportes", time.Now())
	require.NoError(t, env.Portal.UpdateArticle(ctx, id, models.ArticlePatch{
		Slug:    ptr("hand-picked"),
		Excerpt: ptr("nuevo resumen"),
	}))

	a, err := env.Portal.GetArticle(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "beisbol-invernal", a.Slug)
	assert.Equal(t, "nuevo resumen", a.Excerpt)
}

func TestUpdateArticle_Missing(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	err := env.Portal.UpdateArticle(context.Background(), "nope", models.ArticlePatch{Excerpt: ptr("x")})
	assert.True(t, errors.Is(err, portal.ErrNotFound))
}

func TestCreateArticle_Validation(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()

	_, err := env.Portal.CreateArticle(ctx, models.Article{Title: "  "})
	assert.True(t, errors.Is(err, portal.ErrInvalid))

	_, err = env.Portal.CreateArticle(ctx, models.Article{Title: "Hola", Category: "Farándula"})
	assert.True(t, errors.Is(err, portal.ErrInvalid))
}

func TestFindBySlug_CollisionPrefersNewest(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	now := time.Now()

	testutil.CreateTestArticle(t, env.Portal, "Último Minuto", "Nacionales", now.Add(-time.Hour))
	newer := testutil.CreateTestArticle(t, env.Portal, "Ultimo minuto", "Internacional", now)

	found, err := env.Portal.FindBySlug(context.Background(), "ultimo-minuto")
	require.NoError(t, err)
	assert.Equal(t, newer, found.ID)
}

func TestListArticles(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	old := testutil.CreateTestArticle(t, env.Portal, "Vieja", "Deportes", now.Add(-2*time.Hour))
	mid := testutil.CreateTestArticle(t, env.Portal, "Media", "Economía", now.Add(-time.Hour))
	fresh := testutil.CreateTestArticle(t, env.Portal, "Nueva", "Deportes", now)

	all, err := env.Portal.ListArticles(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{fresh, mid, old}, []string{all[0].ID, all[1].ID, all[2].ID})

	sports, err := env.Portal.ListArticles(ctx, "Deportes")
	require.NoError(t, err)
	require.Len(t, sports, 2)
	assert.Equal(t, fresh, sports[0].ID)
	assert.Equal(t, old, sports[1].ID)

	cats, err := env.Portal.ActiveCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Inicio", "Deportes", "Economía"}, cats)
}

func TestDeleteArticle(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()

	id := testutil.CreateTestArticle(t, env.Portal, "Borrar", "Opinión", time.Now())
	_, err := env.Portal.FindBySlug(ctx, "borrar")
	require.NoError(t, err)

	require.NoError(t, env.Portal.DeleteArticle(ctx, id))
	_, err = env.Portal.FindBySlug(ctx, "borrar")
	assert.True(t, errors.Is(err, portal.ErrNotFound))
	// deleting twice is fine
	assert.NoError(t, env.Portal.DeleteArticle(ctx, id))
}

func TestVote(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()
	poll := testutil.CreateTestPoll(t, env, true, []string{"Ana", "Beto"})

	require.NoError(t, env.Portal.Vote(ctx, poll.ID, "ca"))
	require.NoError(t, env.Portal.Vote(ctx, poll.ID, "ca"))
	require.NoError(t, env.Portal.Vote(ctx, poll.ID, "cb"))

	got, err := env.Portal.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Candidates[0].Votes)
	assert.Equal(t, 1, got.Candidates[1].Votes)
	assert.Equal(t, poll.Title, got.Title)
}

func TestVote_Errors(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()
	open := testutil.CreateTestPoll(t, env, true, []string{"Ana"})
	closed := testutil.CreateTestPoll(t, env, false, []string{"Ana"})

	tests := []struct {
		name      string
		poll      string
		candidate string
		want      error
	}{
		{"unknown candidate", open.ID, "zz", portal.ErrCandidateNotFound},
		{"closed poll", closed.ID, "ca", portal.ErrPollClosed},
		{"missing poll", "missing", "ca", portal.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.Portal.Vote(ctx, tt.poll, tt.candidate)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	got, err := env.Portal.GetPoll(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Candidates[0].Votes)
}

func TestVote_ConcurrentVotesLoseNothing(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()
	poll := testutil.CreateTestPoll(t, env, true, []string{"Ana", "Beto"})

	const voters = 25
	var wg sync.WaitGroup
	errs := make(chan error, voters*2)
	for i := 0; i < voters; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs <- env.Portal.Vote(ctx, poll.ID, "ca")
		}()
		go func() {
			defer wg.Done()
			errs <- env.Portal.Vote(ctx, poll.ID, "cb")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := env.Portal.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, voters, got.Candidates[0].Votes)
	assert.Equal(t, voters, got.Candidates[1].Votes)
}

func TestUpdatePoll_KeepsVotes(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()
	poll := testutil.CreateTestPoll(t, env, true, []string{"Ana", "Beto"}, 3, 1)

	candidates := []models.Candidate{
		{ID: "cb", Name: "Beto Pérez", Votes: 999},
		{Name: "Carla"},
	}
	require.NoError(t, env.Portal.UpdatePoll(ctx, poll.ID, models.PollPatch{
		Title:      ptr("Nueva pregunta"),
		Candidates: &candidates,
	}))

	got, err := env.Portal.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nueva pregunta", got.Title)
	require.Len(t, got.Candidates, 2)
	assert.Equal(t, "cb", got.Candidates[0].ID)
	assert.Equal(t, "Beto Pérez", got.Candidates[0].Name)
	assert.Equal(t, 1, got.Candidates[0].Votes)
	assert.NotEmpty(t, got.Candidates[1].ID)
	assert.Equal(t, 0, got.Candidates[1].Votes)
}

func TestCreatePoll_Validation(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()

	_, err := env.Portal.CreatePoll(ctx, models.Poll{Title: "x", Candidates: []models.Candidate{{Name: ""}}})
	assert.True(t, errors.Is(err, portal.ErrInvalid))

	_, err = env.Portal.CreatePoll(ctx, models.Poll{Title: "x", Candidates: []models.Candidate{
		{ID: "a", Name: "A"}, {ID: "a", Name: "B"},
	}})
	assert.True(t, errors.Is(err, portal.ErrInvalid))

	id, err := env.Portal.CreatePoll(ctx, models.Poll{Title: "x", Candidates: []models.Candidate{{Name: "A", Votes: 50}}})
	require.NoError(t, err)
	got, err := env.Portal.GetPoll(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Candidates[0].Votes)
}

func TestSponsorsAndAds(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()

	active, err := env.Portal.CreateSponsor(ctx, models.Sponsor{ImageURL: "https://img/a.png", IsActive: true})
	require.NoError(t, err)
	_, err = env.Portal.CreateSponsor(ctx, models.Sponsor{ImageURL: "https://img/b.png"})
	require.NoError(t, err)
	_, err = env.Portal.CreateSponsor(ctx, models.Sponsor{})
	assert.True(t, errors.Is(err, portal.ErrInvalid))

	list, err := env.Portal.ListSponsors(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active, list[0].ID)

	require.NoError(t, env.Portal.UpdateSponsor(ctx, active, models.SponsorPatch{IsActive: ptr(false)}))
	list, err = env.Portal.ListSponsors(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = env.Portal.CreateAd(ctx, models.AdSlot{Size: "billboard", Label: "x"})
	assert.True(t, errors.Is(err, portal.ErrInvalid))
	adID, err := env.Portal.CreateAd(ctx, models.AdSlot{Size: models.AdSizeSidebar, Label: "Lateral"})
	require.NoError(t, err)
	assert.True(t, errors.Is(env.Portal.UpdateAd(ctx, adID, models.AdSlotPatch{Size: ptr("huge")}), portal.ErrInvalid))
	require.NoError(t, env.Portal.UpdateAd(ctx, adID, models.AdSlotPatch{Link: ptr("https://ads")}))

	ads, err := env.Portal.ListAds(ctx)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, "Lateral", ads[0].Label)
	assert.Equal(t, "https://ads", ads[0].Link)
}

func TestConfigs(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()

	t.Run("defaults when missing", func(t *testing.T) {
		cfg, err := env.Portal.PopupConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultPopupConfig(), cfg)
	})

	t.Run("merge keeps untouched fields", func(t *testing.T) {
		_, err := env.Portal.SavePopupConfig(ctx, models.PopupPatch{Title: ptr("Oferta"), ButtonText: ptr("Ver")})
		require.NoError(t, err)
		saved, err := env.Portal.SavePopupConfig(ctx, models.PopupPatch{IsEnabled: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, "Oferta", saved.Title)
		assert.Equal(t, "Ver", saved.ButtonText)
		assert.True(t, saved.IsEnabled)

		loaded, err := env.Portal.PopupConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, saved, loaded)
	})

	t.Run("generic save by key", func(t *testing.T) {
		v, err := env.Portal.SaveConfig(ctx, models.ConfigPollBanner, []byte(`{"link":"https://x","isEnabled":true}`))
		require.NoError(t, err)
		banner := v.(models.PollBannerConfig)
		assert.Equal(t, "https://x", banner.Link)
		assert.True(t, banner.IsEnabled)

		_, err = env.Portal.SaveConfig(ctx, models.ConfigPollBanner, []byte(`{`))
		assert.True(t, errors.Is(err, portal.ErrInvalid))

		_, err = env.Portal.Config(ctx, "sidebar")
		assert.True(t, errors.Is(err, portal.ErrUnknownConfig))
	})

	t.Run("large popup category override", func(t *testing.T) {
		_, err := env.Portal.SaveLargePopupConfig(ctx, models.LargePopupPatch{
			CategoryAds: map[string]models.PopupConfig{
				"Deportes": {Title: "Deportes ad", IsEnabled: true},
				"Economía": {Title: "off", IsEnabled: false},
			},
		})
		require.NoError(t, err)
		cfg, err := env.Portal.LargePopupConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Deportes ad", cfg.ForCategory("Deportes").Title)
		assert.Equal(t, cfg.PopupConfig, cfg.ForCategory("Economía"))
		assert.Equal(t, cfg.PopupConfig, cfg.ForCategory("Opinión"))
	})
}

func TestSubscribe(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	ctx := context.Background()

	ok, err := env.Portal.IsSubscribed(ctx, "lector@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, env.Portal.Subscribe(ctx, " Lector@Example.com "))
	err = env.Portal.Subscribe(ctx, "lector@example.com")
	assert.True(t, errors.Is(err, portal.ErrAlreadySubscribed))

	ok, err = env.Portal.IsSubscribed(ctx, "LECTOR@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	err = env.Portal.Subscribe(ctx, "not-an-email")
	assert.True(t, errors.Is(err, portal.ErrInvalid))

	subs, err := env.Portal.ListSubscribers(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "lector@example.com", subs[0].Email)
	assert.Equal(t, "lector@example.com", subs[0].ID)
}
