// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import "context"

// Op is the kind of mutation a Change describes.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Change announces one committed document mutation.
type Change struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Op         Op     `json:"op"`
}

// Notifier carries change announcements from writers to watchers.
type Notifier interface {
	// Publish announces a committed change to every listener, including
	// listeners in other processes for distributed notifiers.
	Publish(ctx context.Context, c Change) error
	Listen() *Listener[Change]
	Unlisten(l *Listener[Change])
	Close() error
}

// Local delivers changes to listeners in this process only.
type Local struct {
	b *Broadcaster[Change]
}

func NewLocal() *Local {
	return &Local{b: NewBroadcaster[Change]()}
}

func (n *Local) Publish(_ context.Context, c Change) error {
	n.b.Broadcast(c)
	return nil
}

func (n *Local) Listen() *Listener[Change] { return n.b.AddListener() }

func (n *Local) Unlisten(l *Listener[Change]) { n.b.RemoveListener(l) }

func (n *Local) Close() error {
	n.b.Close()
	return nil
}
