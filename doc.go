// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the newsdesk API server.

newsdesk serves a news portal: articles with slugs, reader polls with one
vote per browser, sponsor and ad placements, popup configs and a newsletter
list. Clients can follow any collection live over WebSocket.

# Starting the Server

	SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - SESSION_SECRET (--session-secret): signs admin sessions and vote cookies

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t), DATABASE_URL (-d): sqlite (default) or postgres
  - PUBLIC_URL (--public-url): base for share links and uploads; its origin
    is the only one allowed credentialed CORS requests
  - REDIS_ADDR (--redis): share change notifications between instances
  - BLOB_BACKEND, UPLOAD_DIR, S3_BUCKET, S3_REGION: image storage
  - GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET: Google admin sign-in
  - SECURE_COOKIES: HTTPS-only cookies

A .env file is loaded when present.

# Architecture

  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: logging, CORS, JSON helpers, admin gate
  - portal: content rules (slugs, votes, configs)
  - syncstore, docstore, notify: document store with live subscriptions
  - ballot: per-client vote memory
  - auth, blob, slug, models, db, cliparse

The operator CLI lives in cmd/newsdeskctl.

See package documentation for each component.
*/
package main
