// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel is the pub/sub channel shared by all instances.
const DefaultRedisChannel = "newsdesk:changes"

// Redis fans changes out across instances through Redis pub/sub. A writer
// does not deliver locally; it sees its own change when Redis echoes it.
type Redis struct {
	client  *redis.Client
	pubsub  *redis.PubSub
	channel string
	b       *Broadcaster[Change]
	done    chan struct{}
}

// NewRedis connects to addr and subscribes to channel.
func NewRedis(ctx context.Context, addr, channel string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	pubsub := client.Subscribe(ctx, channel)
	// Wait for the subscription confirmation so no publish is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		client.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	n := &Redis{
		client:  client,
		pubsub:  pubsub,
		channel: channel,
		b:       NewBroadcaster[Change](),
		done:    make(chan struct{}),
	}
	go n.run()
	return n, nil
}

func (n *Redis) run() {
	defer close(n.done)
	for msg := range n.pubsub.Channel() {
		var c Change
		if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
			slog.Warn("dropping malformed change message", "error", err)
			continue
		}
		n.b.Broadcast(c)
	}
}

func (n *Redis) Publish(ctx context.Context, c Change) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode change: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (n *Redis) Listen() *Listener[Change] { return n.b.AddListener() }

func (n *Redis) Unlisten(l *Listener[Change]) { n.b.RemoveListener(l) }

func (n *Redis) Close() error {
	err := n.pubsub.Close()
	<-n.done
	n.b.Close()
	if cerr := n.client.Close(); err == nil {
		err = cerr
	}
	return err
}
