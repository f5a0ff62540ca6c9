// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/newsdesk/auth"
	"github.com/danielhkuo/newsdesk/blob"
	"github.com/danielhkuo/newsdesk/cliparse"
	"github.com/danielhkuo/newsdesk/handlers"
	"github.com/danielhkuo/newsdesk/middleware"
	"github.com/danielhkuo/newsdesk/portal"
)

// Deps are the services the routes are built on.
type Deps struct {
	Portal   *portal.Service
	Admins   *auth.Admins
	Sessions *auth.Sessions
	// Google is nil when federated sign-in is not configured.
	Google handlers.GoogleSignIn
	Blobs  blob.Store
	// Files serves /uploads/ for the local blob backend; nil otherwise.
	Files  http.Handler
	Config cliparse.Config
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()
	cfg := deps.Config

	// Initialize handlers
	articleHandler := handlers.NewArticleHandler(deps.Portal, cfg)
	pollHandler := handlers.NewPollHandler(deps.Portal, cfg)
	votingHandler := handlers.NewVotingHandler(deps.Portal, cfg)
	placementHandler := handlers.NewPlacementHandler(deps.Portal)
	configHandler := handlers.NewConfigHandler(deps.Portal)
	subscriberHandler := handlers.NewSubscriberHandler(deps.Portal)
	categoryHandler := handlers.NewCategoryHandler(deps.Portal)
	liveHandler := handlers.NewLiveHandler(deps.Portal, cfg)
	adminHandler := handlers.NewAdminHandler(deps.Admins, deps.Sessions, deps.Google, cfg)
	uploadHandler := handlers.NewUploadHandler(deps.Blobs)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(deps.Sessions, deps.Admins, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Articles (public)
	mux.HandleFunc("GET /articles", middleware.WithLogging(articleHandler.List))
	mux.HandleFunc("GET /articles/{slug}", middleware.WithLogging(articleHandler.GetBySlug))

	// Polls and voting (public)
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.List))
	mux.HandleFunc("GET /polls/my-votes", middleware.WithLogging(votingHandler.MyVotes))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.Get))
	mux.HandleFunc("POST /polls/{id}/vote", middleware.WithLogging(votingHandler.Vote))

	// Placements, configs, categories, newsletter (public)
	mux.HandleFunc("GET /sponsors", middleware.WithLogging(placementHandler.ListSponsors))
	mux.HandleFunc("GET /ads", middleware.WithLogging(placementHandler.ListAds))
	mux.HandleFunc("GET /config/{key}", middleware.WithLogging(configHandler.Get))
	mux.HandleFunc("GET /categories", middleware.WithLogging(categoryHandler.List))
	mux.HandleFunc("GET /categories/resolve", middleware.WithLogging(categoryHandler.Resolve))
	mux.HandleFunc("POST /subscribers", middleware.WithLogging(subscriberHandler.Subscribe))

	// Live subscriptions (WebSocket)
	mux.HandleFunc("GET /live/{collection}", middleware.WithLogging(liveHandler.Collection))
	mux.HandleFunc("GET /live/config/{key}", middleware.WithLogging(liveHandler.Config))

	// Admin session
	mux.HandleFunc("POST /admin/login", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("POST /admin/logout", middleware.WithLogging(adminHandler.Logout))
	mux.HandleFunc("GET /admin/login/google", middleware.WithLogging(adminHandler.GoogleLogin))
	mux.HandleFunc("GET /admin/login/google/callback", middleware.WithLogging(adminHandler.GoogleCallback))
	mux.HandleFunc("GET /admin/me", admin(adminHandler.Me))
	mux.HandleFunc("POST /admin/password", admin(adminHandler.ChangePassword))

	// Content management (admin)
	mux.HandleFunc("POST /admin/articles", admin(articleHandler.Create))
	mux.HandleFunc("PUT /admin/articles/{id}", admin(articleHandler.Update))
	mux.HandleFunc("DELETE /admin/articles/{id}", admin(articleHandler.Delete))
	mux.HandleFunc("POST /admin/polls", admin(pollHandler.Create))
	mux.HandleFunc("PUT /admin/polls/{id}", admin(pollHandler.Update))
	mux.HandleFunc("DELETE /admin/polls/{id}", admin(pollHandler.Delete))
	mux.HandleFunc("POST /admin/sponsors", admin(placementHandler.CreateSponsor))
	mux.HandleFunc("PUT /admin/sponsors/{id}", admin(placementHandler.UpdateSponsor))
	mux.HandleFunc("DELETE /admin/sponsors/{id}", admin(placementHandler.DeleteSponsor))
	mux.HandleFunc("POST /admin/ads", admin(placementHandler.CreateAd))
	mux.HandleFunc("PUT /admin/ads/{id}", admin(placementHandler.UpdateAd))
	mux.HandleFunc("DELETE /admin/ads/{id}", admin(placementHandler.DeleteAd))
	mux.HandleFunc("PUT /admin/config/{key}", admin(configHandler.Save))
	mux.HandleFunc("GET /admin/subscribers", admin(subscriberHandler.List))
	mux.HandleFunc("GET /admin/subscribers/check", admin(subscriberHandler.Check))
	mux.HandleFunc("POST /admin/uploads", admin(uploadHandler.Upload))

	// Uploaded images (local backend)
	if deps.Files != nil {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", deps.Files))
	}

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("newsdesk API v1"))
	})

	return mux
}
