// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncstore

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/slices"

	"github.com/danielhkuo/newsdesk/docstore"
	"github.com/danielhkuo/newsdesk/notify"
)

const refreshTimeout = 10 * time.Second

type joinRequest struct {
	ctx   context.Context
	sub   *subscriber
	reply chan error
}

// watcher owns one remote query. A single goroutine reads snapshots and
// hands them to subscribers, so snapshots reach every subscriber in the
// order they were read.
type watcher struct {
	key      watchKey
	notifier notify.Notifier
	listener *notify.Listener[notify.Change]
	fetch    func(context.Context) ([]docstore.Document, error)

	joins    chan joinRequest
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	refs int // guarded by Store.mu
	subs []*subscriber
}

func newWatcher(key watchKey, n notify.Notifier, fetch func(context.Context) ([]docstore.Document, error)) *watcher {
	return &watcher{
		key:      key,
		notifier: n,
		// Listen before the first read so no change can slip in between.
		listener: n.Listen(),
		fetch:    fetch,
		joins:    make(chan joinRequest),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (w *watcher) shutdown() {
	w.stopOnce.Do(func() { close(w.stop) })
}

// join reads a snapshot for sub and adds it to the watcher.
func (w *watcher) join(ctx context.Context, sub *subscriber) error {
	req := joinRequest{ctx: ctx, sub: sub, reply: make(chan error, 1)}
	select {
	case w.joins <- req:
	case <-w.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-req.reply
}

func (w *watcher) run() {
	defer close(w.done)
	defer w.notifier.Unlisten(w.listener)

	changes := w.listener.C
	for {
		select {
		case <-w.stop:
			for _, sub := range w.subs {
				sub.close()
			}
			w.subs = nil
			return

		case req := <-w.joins:
			snap, err := w.fetch(req.ctx)
			if err != nil {
				req.reply <- err
				continue
			}
			w.subs = append(w.subs, req.sub)
			req.sub.offer(snap)
			req.reply <- nil

		case c, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if !w.matches(c) {
				continue
			}
			if !drain(changes) {
				changes = nil
			}
			w.refresh()
		}
	}
}

func (w *watcher) matches(c notify.Change) bool {
	if c.Collection != w.key.collection {
		return false
	}
	return w.key.id == "" || c.ID == w.key.id
}

// drain discards queued changes; one read covers all of them. Returns
// false if the channel was closed.
func drain(ch <-chan notify.Change) bool {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}

func (w *watcher) refresh() {
	w.subs = slices.DeleteFunc(w.subs, func(s *subscriber) bool { return s.closed.Load() })
	if len(w.subs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	snap, err := w.fetch(ctx)
	if err != nil {
		// Subscribers keep their last snapshot until the next change.
		slog.Error("failed to refresh snapshot",
			"collection", w.key.collection,
			"id", w.key.id,
			"error", err,
		)
		return
	}
	for _, sub := range w.subs {
		sub.offer(snap)
	}
}

// subscriber delivers snapshots to one callback on its own goroutine.
// Only the newest undelivered snapshot is kept.
type subscriber struct {
	deliver func([]docstore.Document)
	slot    chan []docstore.Document
	done    chan struct{}
	once    sync.Once
	closed  atomic.Bool
}

func newSubscriber(deliver func([]docstore.Document)) *subscriber {
	return &subscriber{
		deliver: deliver,
		slot:    make(chan []docstore.Document, 1),
		done:    make(chan struct{}),
	}
}

// offer replaces any pending snapshot with snap. Only the watcher
// goroutine calls it.
func (s *subscriber) offer(snap []docstore.Document) {
	if s.closed.Load() {
		return
	}
	for {
		select {
		case s.slot <- snap:
			return
		default:
		}
		select {
		case <-s.slot:
		default:
		}
	}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case snap := <-s.slot:
			if s.closed.Load() {
				return
			}
			s.deliver(snap)
		}
	}
}

func (s *subscriber) close() {
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.done)
	})
}
