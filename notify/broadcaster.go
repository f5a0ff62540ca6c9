// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"sync"

	"golang.org/x/exp/slices"
)

// Arbitrary buffer size to make it less likely that Broadcast blocks. It is
// still the consumer's responsibility to keep reading its channel.
const listenerBufferLength = 10

// Broadcaster fans a value out to every current listener.
//
// AddListener returns a new Listener; RemoveListener unsubscribes it and
// closes its channel; Broadcast sends a value to all listeners; Close
// removes and closes all of them.
type Broadcaster[V any] struct {
	listeners []*Listener[V]
	lock      sync.Mutex
}

// Listener is one subscription to a Broadcaster. C is closed after the
// listener is removed.
type Listener[V any] struct {
	C    <-chan V
	send chan V
	done chan struct{}
	once sync.Once
}

func (l *Listener[V]) stop() {
	l.once.Do(func() { close(l.done) })
}

func NewBroadcaster[V any]() *Broadcaster[V] {
	return &Broadcaster[V]{}
}

// AddListener adds a subscriber and returns its listener.
func (b *Broadcaster[V]) AddListener() *Listener[V] {
	ch := make(chan V, listenerBufferLength)
	l := &Listener[V]{C: ch, send: ch, done: make(chan struct{})}
	b.lock.Lock()
	defer b.lock.Unlock()
	b.listeners = append(b.listeners, l)
	return l
}

// RemoveListener removes a subscriber. Removing twice is a no-op.
func (b *Broadcaster[V]) RemoveListener(l *Listener[V]) {
	// Unblock a Broadcast that may be waiting on this listener's full
	// buffer before taking the lock it holds.
	l.stop()
	b.lock.Lock()
	defer b.lock.Unlock()
	before := len(b.listeners)
	b.listeners = slices.DeleteFunc(b.listeners, func(x *Listener[V]) bool { return x == l })
	if len(b.listeners) < before {
		close(l.send)
	}
}

// HasListeners returns true if there are any current subscribers.
func (b *Broadcaster[V]) HasListeners() bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.listeners) > 0
}

// Broadcast sends value to all current subscribers, waiting for buffer
// space on each one that is still subscribed.
func (b *Broadcaster[V]) Broadcast(value V) {
	b.lock.Lock()
	defer b.lock.Unlock()
	for _, l := range b.listeners {
		select {
		case l.send <- value:
		case <-l.done:
		}
	}
}

// Close closes all current subscriber channels.
func (b *Broadcaster[V]) Close() {
	b.lock.Lock()
	ls := slices.Clone(b.listeners)
	b.lock.Unlock()
	for _, l := range ls {
		b.RemoveListener(l)
	}
}
