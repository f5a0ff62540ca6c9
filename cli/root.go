// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/newsdesk/auth"
	"github.com/danielhkuo/newsdesk/db"
	"github.com/danielhkuo/newsdesk/docstore"
	"github.com/danielhkuo/newsdesk/notify"
	"github.com/danielhkuo/newsdesk/portal"
	"github.com/danielhkuo/newsdesk/syncstore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabaseURL  string
	DatabaseType string
	RedisAddr    string
}

// NewRootCommand creates the root command for newsdeskctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "newsdeskctl",
		Short: "Operator tools for the newsdesk portal",
		Long: `Manage admin accounts, seed content and cast votes against a newsdesk database.

Without --redis, changes are announced only inside this process: servers
running against the same database do not push them to live subscribers
until their next change in the same collection. Pass the servers' Redis
address to reach them.`,
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.DatabaseURL, "db", "d", envOr("DATABASE_URL", "file:newsdesk.db"), "database URL")
	cmd.PersistentFlags().StringVarP(&opts.DatabaseType, "db-type", "t", envOr("DATABASE_TYPE", "sqlite"), "database type (sqlite|postgres)")
	cmd.PersistentFlags().StringVar(&opts.RedisAddr, "redis", os.Getenv("REDIS_ADDR"), "Redis address shared with running servers")

	// Add subcommands
	cmd.AddCommand(NewCreateAdminCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewSlugifyCommand())
	cmd.AddCommand(NewVoteCommand(opts))

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// backend is the service stack a command runs against. Changes reach
// running servers only through Redis.
type backend struct {
	conn     *sql.DB
	notifier notify.Notifier
	store    *syncstore.Store
	portal   *portal.Service
	admins   *auth.Admins

	closeOnce sync.Once
}

func (o *RootOptions) open() (*backend, error) {
	dialect, err := db.ParseDialect(o.DatabaseType)
	if err != nil {
		return nil, err
	}
	conn, err := db.Open(dialect, o.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	n, err := o.notifier()
	if err != nil {
		conn.Close()
		return nil, err
	}
	docs := docstore.New(conn, dialect, n)
	store := syncstore.New(docs)
	return &backend{
		conn:     conn,
		notifier: n,
		store:    store,
		portal:   portal.NewService(docs, store),
		admins:   auth.NewAdmins(conn, dialect),
	}, nil
}

// notifier uses Redis when an address is configured, like the server.
func (o *RootOptions) notifier() (notify.Notifier, error) {
	if o.RedisAddr == "" {
		return notify.NewLocal(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := notify.NewRedis(ctx, o.RedisAddr, notify.DefaultRedisChannel)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (b *backend) Close() {
	b.closeOnce.Do(func() {
		b.portal.Close()
		b.store.Close()
		b.notifier.Close()
		b.conn.Close()
	})
}
