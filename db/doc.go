// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Dialects

Two backends are supported, selected by DATABASE_TYPE:

  - sqlite (default): pure-Go modernc.org/sqlite, WAL mode, single writer
  - postgres: github.com/lib/pq with a small connection pool

Queries are written with ? placeholders and passed through Rebind:

	conn.QueryRow(d.Rebind("SELECT data FROM document WHERE collection = ? AND id = ?"), c, id)

JSONText builds a text extraction of a top-level JSON field, and ForUpdate
returns the row-lock suffix used inside transactions.

# Opening

	d, _ := db.ParseDialect(cfg.DatabaseType)
	conn, err := db.Open(d, cfg.DatabaseURL)

# Tables

  - document: (collection, id) -> JSON data with created/updated times
  - admin: admin accounts (bcrypt password hash, google link flag)

CreateSchema is safe to call multiple times - uses IF NOT EXISTS.
*/
package db
