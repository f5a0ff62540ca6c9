// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the newsdesk API.

# Handler Types

Each handler is a struct built from the portal service and config:

  - ArticleHandler: article listing, slug lookup, admin CRUD
  - PollHandler: polls with tallies and this browser's vote
  - VotingHandler: one vote per poll per browser
  - PlacementHandler: sponsor banners and ad slots
  - ConfigHandler: singleton config documents
  - CategoryHandler: category list and path resolution
  - SubscriberHandler: newsletter sign-up
  - AdminHandler: admin sign-in (password or Google)
  - UploadHandler: image uploads to the blob store
  - LiveHandler: WebSocket snapshot subscriptions

Handlers are created via constructor functions:

	articleHandler := handlers.NewArticleHandler(svc, cfg)

# Errors

Service errors map to status codes in one place (writeServiceError):
not found is 404, invalid input 400, a closed poll or repeated sign-up
409, anything else 500 with "Database error".

# Voting

	POST /polls/{id}/vote → Vote

Each poll a browser voted in gets its own signed cookie. A poll that
already has one is refused with 409 whatever the candidate, and the cookie
is only written after the vote commits. GET /polls/my-votes returns every
remembered vote.

# Tallies

ComputeTally derives totals, rounded percentages and leaders from the
candidate counts in tally.go. Every candidate with the top count leads;
a poll with no votes has no leader.

# Live Updates

	GET /live/{collection}
	GET /live/config/{key}

Each committed change pushes a full snapshot frame. Closing the socket
ends the subscription.
*/
package handlers
