// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/danielhkuo/newsdesk/docstore"
	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/notify"
)

// NewID as a Write id asks for a new document.
const NewID = "new"

var ErrClosed = errors.New("sync store closed")

// Unsubscribe stops a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

type watchKey struct {
	collection string
	id         string // empty for whole-collection watchers
}

// Store mirrors remote collections to local subscribers and forwards
// writes to the document store. Mirrors are never updated optimistically:
// every snapshot a subscriber sees was read back after a committed change.
type Store struct {
	docs     *docstore.Store
	notifier notify.Notifier
	orders   map[string]docstore.Query

	mu       sync.Mutex
	watchers map[watchKey]*watcher
	closed   bool
}

// New returns a Store over docs. Change notifications are taken from the
// notifier docs publishes on.
func New(docs *docstore.Store) *Store {
	return &Store{
		docs:     docs,
		notifier: docs.Notifier(),
		orders: map[string]docstore.Query{
			models.CollectionNews: {OrderBy: "publishedAt", Desc: true},
		},
		watchers: make(map[watchKey]*watcher),
	}
}

// Fetch reads the current snapshot of a collection in its delivery order.
func (s *Store) Fetch(ctx context.Context, collection string) ([]docstore.Document, error) {
	return s.docs.Query(ctx, collection, s.orders[collection])
}

// Subscribe registers onChange for every snapshot of collection. The
// initial snapshot is read before Subscribe returns and a failed read is
// returned as the error. onChange runs on a goroutine owned by the
// subscription and sees snapshots in commit order, skipping any that were
// superseded before it could run.
func (s *Store) Subscribe(ctx context.Context, collection string, onChange func([]docstore.Document)) (Unsubscribe, error) {
	return s.subscribe(ctx, watchKey{collection: collection}, onChange)
}

// SubscribeDoc registers onChange for a single document. Nothing is
// delivered while the document does not exist.
func (s *Store) SubscribeDoc(ctx context.Context, collection, id string, onChange func(docstore.Document)) (Unsubscribe, error) {
	return s.subscribe(ctx, watchKey{collection: collection, id: id}, func(docs []docstore.Document) {
		if len(docs) == 1 {
			onChange(docs[0])
		}
	})
}

func (s *Store) subscribe(ctx context.Context, key watchKey, deliver func([]docstore.Document)) (Unsubscribe, error) {
	w, err := s.acquire(key)
	if err != nil {
		return nil, err
	}

	sub := newSubscriber(deliver)
	if err := w.join(ctx, sub); err != nil {
		sub.close()
		s.release(w)
		return nil, fmt.Errorf("subscribe %s: %w", key.collection, err)
	}
	go sub.run()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.close()
			s.release(w)
		})
	}, nil
}

func (s *Store) acquire(key watchKey) (*watcher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	w, ok := s.watchers[key]
	if !ok {
		w = newWatcher(key, s.notifier, s.fetcher(key))
		s.watchers[key] = w
		go w.run()
	}
	w.refs++
	return w, nil
}

func (s *Store) release(w *watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.refs--
	if w.refs > 0 {
		return
	}
	if s.watchers[w.key] == w {
		delete(s.watchers, w.key)
	}
	w.shutdown()
}

func (s *Store) fetcher(key watchKey) func(context.Context) ([]docstore.Document, error) {
	if key.id == "" {
		return func(ctx context.Context) ([]docstore.Document, error) {
			return s.Fetch(ctx, key.collection)
		}
	}
	return func(ctx context.Context) ([]docstore.Document, error) {
		doc, err := s.docs.Get(ctx, key.collection, key.id)
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []docstore.Document{doc}, nil
	}
}

// Write creates a document when id is empty or NewID and returns the new
// id. Otherwise it merges partial into the existing document.
func (s *Store) Write(ctx context.Context, collection, id string, partial any) (string, error) {
	if id == "" || id == NewID {
		return s.docs.Create(ctx, collection, partial)
	}
	if err := s.docs.Update(ctx, collection, id, partial); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes a document. Missing documents are not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	return s.docs.Delete(ctx, collection, id)
}

// Close ends every subscription and waits for the watchers to exit.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	ws := make([]*watcher, 0, len(s.watchers))
	for _, w := range s.watchers {
		ws = append(ws, w)
	}
	s.watchers = make(map[watchKey]*watcher)
	s.mu.Unlock()

	for _, w := range ws {
		w.shutdown()
		<-w.done
	}
}
