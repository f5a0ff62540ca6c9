// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package portal

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/danielhkuo/newsdesk/docstore"
	"github.com/danielhkuo/newsdesk/models"
	"github.com/danielhkuo/newsdesk/notify"
	"github.com/danielhkuo/newsdesk/syncstore"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrPollClosed        = errors.New("poll is not active")
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrInvalid           = errors.New("invalid input")
	ErrUnknownConfig     = errors.New("unknown config key")
)

const (
	slugCacheTTL     = 5 * time.Minute
	slugCacheCleanup = 10 * time.Minute
)

// Service implements the portal's content operations on top of the
// sync store.
type Service struct {
	docs  *docstore.Store
	store *syncstore.Store
	now   func() time.Time

	slugs    *cache.Cache
	slugGen  atomic.Uint64
	notifier notify.Notifier
	listener *notify.Listener[notify.Change]
	done     chan struct{}
}

// NewService returns a Service. Close releases its change listener.
func NewService(docs *docstore.Store, store *syncstore.Store) *Service {
	s := &Service{
		docs:     docs,
		store:    store,
		now:      time.Now,
		slugs:    cache.New(slugCacheTTL, slugCacheCleanup),
		notifier: docs.Notifier(),
		done:     make(chan struct{}),
	}
	s.listener = s.notifier.Listen()
	go s.watchArticles()
	return s
}

// Store returns the sync store backing the service.
func (s *Service) Store() *syncstore.Store {
	return s.store
}

func (s *Service) Close() {
	s.notifier.Unlisten(s.listener)
	<-s.done
}

// watchArticles drops cached slug lookups whenever an article changes,
// including changes written by other instances.
func (s *Service) watchArticles() {
	defer close(s.done)
	for c := range s.listener.C {
		if c.Collection == models.CollectionNews {
			s.invalidateSlugs()
		}
	}
}

func (s *Service) invalidateSlugs() {
	s.slugGen.Add(1)
	s.slugs.Flush()
}

// mapNotFound turns a store miss into the portal's ErrNotFound.
func mapNotFound(err error, what string) error {
	if errors.Is(err, docstore.ErrNotFound) || errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func fetchAll[T any, PT syncstore.Entity[T]](ctx context.Context, s *Service, collection string) ([]T, error) {
	docs, err := s.store.Fetch(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return syncstore.Decode[T, PT](docs), nil
}

func fetchOne[T any, PT syncstore.Entity[T]](ctx context.Context, s *Service, collection, id string) (T, error) {
	var v T
	doc, err := s.docs.Get(ctx, collection, id)
	if err != nil {
		return v, mapNotFound(err, collection+"/"+id)
	}
	if err := doc.Decode(&v); err != nil {
		return v, err
	}
	PT(&v).SetID(doc.ID)
	return v, nil
}
