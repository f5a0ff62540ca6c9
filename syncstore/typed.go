// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncstore

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/newsdesk/docstore"
)

// Entity is a pointer to a stored type that carries its remote id.
type Entity[T any] interface {
	*T
	SetID(string)
}

// Decode maps documents to entities with their ids attached. Documents
// that do not decode are skipped.
func Decode[T any, PT Entity[T]](docs []docstore.Document) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := d.Decode(&v); err != nil {
			slog.Warn("skipping malformed document",
				"collection", d.Collection,
				"id", d.ID,
				"error", err,
			)
			continue
		}
		PT(&v).SetID(d.ID)
		out = append(out, v)
	}
	return out
}

// Subscribe is Store.Subscribe with decoded entities.
func Subscribe[T any, PT Entity[T]](ctx context.Context, s *Store, collection string, onChange func([]T)) (Unsubscribe, error) {
	return s.Subscribe(ctx, collection, func(docs []docstore.Document) {
		onChange(Decode[T, PT](docs))
	})
}

// SubscribeDoc is Store.SubscribeDoc with a decoded entity.
func SubscribeDoc[T any, PT Entity[T]](ctx context.Context, s *Store, collection, id string, onChange func(T)) (Unsubscribe, error) {
	return s.SubscribeDoc(ctx, collection, id, func(d docstore.Document) {
		items := Decode[T, PT]([]docstore.Document{d})
		if len(items) == 1 {
			onChange(items[0])
		}
	})
}

// SubscribeValue follows a single document decoded over init() without an
// id, as used for configuration documents whose stored form may omit
// fields.
func SubscribeValue[T any](ctx context.Context, s *Store, collection, id string, init func() T, onChange func(T)) (Unsubscribe, error) {
	return s.SubscribeDoc(ctx, collection, id, func(d docstore.Document) {
		v := init()
		if err := d.Decode(&v); err != nil {
			slog.Warn("skipping malformed document",
				"collection", d.Collection,
				"id", d.ID,
				"error", err,
			)
			return
		}
		onChange(v)
	})
}
