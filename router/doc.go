// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the newsdesk API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{Portal: svc, Admins: admins, ...})

Wrap it once with middleware.Stack before serving.

# Endpoints

Health:

	GET /health

Public content:

	GET  /articles?category=      - Articles, newest first
	GET  /articles/{slug}         - Article by slug
	GET  /polls?active=true       - Polls with tallies
	GET  /polls/my-votes          - This browser's votes
	GET  /polls/{id}              - One poll
	POST /polls/{id}/vote         - Cast a vote
	GET  /sponsors?active=true    - Sponsor banners
	GET  /ads                     - Ad slots
	GET  /config/{key}?category=  - Config document
	GET  /categories?active=true  - Categories with paths
	GET  /categories/resolve      - Path to category
	POST /subscribers             - Newsletter sign-up

Live (WebSocket):

	GET /live/{collection}
	GET /live/config/{key}

Admin (session cookie, 401 otherwise):

	POST /admin/login, /admin/logout, /admin/password
	GET  /admin/me, /admin/login/google, /admin/login/google/callback
	POST|PUT|DELETE /admin/{articles,polls,sponsors,ads}[/{id}]
	PUT  /admin/config/{key}
	GET  /admin/subscribers
	GET  /admin/subscribers/check?email=
	POST /admin/uploads

Uploaded images are served under /uploads/ when the local blob backend
is in use.
*/
package router
