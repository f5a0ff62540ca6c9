// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines stored document shapes, request, and response types.

# Documents

Entity types are stored as JSON documents; their JSON field names are the
document schema:

  - Article (noticias): title, slug, excerpt, category, publishedAt, ...
  - Poll (encuestas): title, closingDate, isActive, candidates
  - Candidate: name, party, photoUrl, votes
  - Sponsor (patrocinadores): imageUrl, link, isActive
  - AdSlot (banners): size, label, imageUrl, link
  - Subscriber (suscriptores): email, subscribedAt

Entities implement SetID so the store can attach the document id after
decoding. Each mutable entity has a Patch type whose nil fields are left
untouched by an update.

# Config Documents

Singleton documents in the configuracion collection, one typed struct per
key with an explicit Merge:

	cfg = cfg.Merge(models.PopupPatch{IsEnabled: &off})

Keys: popup, largePopup, activity, floatingBanner, pollBanner.

# Timestamps

Timestamp marshals to a fixed-width UTC string so documents can be ordered
by publishedAt with plain string comparison in either database.
*/
package models
