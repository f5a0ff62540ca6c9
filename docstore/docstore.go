// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/newsdesk/db"
	"github.com/danielhkuo/newsdesk/notify"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidField = errors.New("invalid field name")
	ErrNotObject    = errors.New("document data must be a JSON object")
)

var fieldRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Document is one stored JSON object.
type Document struct {
	ID         string
	Collection string
	Data       json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Decode unmarshals the document data into v.
func (d Document) Decode(v any) error {
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("decode %s/%s: %w", d.Collection, d.ID, err)
	}
	return nil
}

// Filter matches documents whose top-level string field equals Value.
type Filter struct {
	Field string
	Value string
}

// Query selects documents of one collection. Without OrderBy documents
// come back in insertion order.
type Query struct {
	Where   []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Store keeps documents in the document table and announces every
// committed mutation through its notifier.
type Store struct {
	db       *sql.DB
	dialect  db.Dialect
	notifier notify.Notifier
	now      func() time.Time
}

func New(conn *sql.DB, dialect db.Dialect, notifier notify.Notifier) *Store {
	return &Store{
		db:       conn,
		dialect:  dialect,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Notifier returns the notifier changes are published on.
func (s *Store) Notifier() notify.Notifier {
	return s.notifier
}

// Create inserts data under a new id and returns the id.
func (s *Store) Create(ctx context.Context, collection string, data any) (string, error) {
	obj, err := toObject(data)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}
	payload, err := json.Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}

	id := uuid.NewString()
	now := s.now()
	_, err = s.db.ExecContext(ctx, s.dialect.Rebind(`
		INSERT INTO document (collection, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`), collection, id, string(payload), now, now)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}

	s.publish(ctx, notify.Change{Collection: collection, ID: id, Op: notify.OpCreate})
	return id, nil
}

// Get reads one document. Returns ErrNotFound when it does not exist.
func (s *Store) Get(ctx context.Context, collection, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT id, collection, data, created_at, updated_at
		FROM document
		WHERE collection = ? AND id = ?
	`), collection, id)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// Update merges the top-level fields of patch into an existing document.
// Returns ErrNotFound when the document does not exist.
func (s *Store) Update(ctx context.Context, collection, id string, patch any) error {
	fields, err := toObject(patch)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return s.Mutate(ctx, collection, id, func(current json.RawMessage) (any, error) {
		if current == nil {
			return nil, ErrNotFound
		}
		var merged map[string]json.RawMessage
		if err := json.Unmarshal(current, &merged); err != nil {
			return nil, err
		}
		if merged == nil {
			merged = make(map[string]json.RawMessage, len(fields))
		}
		for k, v := range fields {
			merged[k] = v
		}
		return merged, nil
	})
}

// Set writes data as the whole document, creating it when missing.
func (s *Store) Set(ctx context.Context, collection, id string, data any) error {
	return s.Mutate(ctx, collection, id, func(json.RawMessage) (any, error) {
		return data, nil
	})
}

// Mutate runs a read-modify-write of one document inside a transaction.
//
// fn receives the current data, or nil when the document does not exist,
// and returns the complete new data. The row is locked for the duration on
// Postgres; on SQLite the single connection serializes transactions. fn
// must not call back into the Store.
func (s *Store) Mutate(ctx context.Context, collection, id string, fn func(current json.RawMessage) (any, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mutate %s/%s: begin: %w", collection, id, err)
	}
	defer tx.Rollback()

	var raw string
	exists := true
	err = tx.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT data FROM document WHERE collection = ? AND id = ?`+s.dialect.ForUpdate()),
		collection, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		exists = false
	} else if err != nil {
		return fmt.Errorf("mutate %s/%s: read: %w", collection, id, err)
	}

	var current json.RawMessage
	if exists {
		current = json.RawMessage(raw)
	}
	next, err := fn(current)
	if err != nil {
		return fmt.Errorf("mutate %s/%s: %w", collection, id, err)
	}
	obj, err := toObject(next)
	if err != nil {
		return fmt.Errorf("mutate %s/%s: %w", collection, id, err)
	}
	payload, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("mutate %s/%s: %w", collection, id, err)
	}

	now := s.now()
	op := notify.OpUpdate
	if exists {
		_, err = tx.ExecContext(ctx, s.dialect.Rebind(`
			UPDATE document SET data = ?, updated_at = ?
			WHERE collection = ? AND id = ?
		`), string(payload), now, collection, id)
	} else {
		op = notify.OpCreate
		_, err = tx.ExecContext(ctx, s.dialect.Rebind(`
			INSERT INTO document (collection, id, data, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`), collection, id, string(payload), now, now)
	}
	if err != nil {
		return fmt.Errorf("mutate %s/%s: write: %w", collection, id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("mutate %s/%s: commit: %w", collection, id, err)
	}

	s.publish(ctx, notify.Change{Collection: collection, ID: id, Op: op})
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(`
		DELETE FROM document WHERE collection = ? AND id = ?
	`), collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}

	s.publish(ctx, notify.Change{Collection: collection, ID: id, Op: notify.OpDelete})
	return nil
}

// Query returns the documents of collection matching q.
func (s *Store) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	var b strings.Builder
	args := []any{collection}

	b.WriteString(`SELECT id, collection, data, created_at, updated_at FROM document WHERE collection = ?`)
	for _, f := range q.Where {
		if !fieldRe.MatchString(f.Field) {
			return nil, fmt.Errorf("query %s: %w: %q", collection, ErrInvalidField, f.Field)
		}
		b.WriteString(" AND ")
		b.WriteString(s.dialect.JSONText("data", f.Field))
		b.WriteString(" = ?")
		args = append(args, f.Value)
	}

	if q.OrderBy != "" {
		if !fieldRe.MatchString(q.OrderBy) {
			return nil, fmt.Errorf("query %s: %w: %q", collection, ErrInvalidField, q.OrderBy)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(s.dialect.JSONText("data", q.OrderBy))
		if q.Desc {
			b.WriteString(" DESC")
		}
		b.WriteString(", created_at, id")
	} else {
		b.WriteString(" ORDER BY created_at, id")
	}

	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(b.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("query %s: scan: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return docs, nil
}

// publish announces a committed change. The write already succeeded, so a
// notifier failure is logged rather than returned.
func (s *Store) publish(ctx context.Context, c notify.Change) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, c); err != nil {
		slog.Error("failed to publish change",
			"collection", c.Collection,
			"id", c.ID,
			"op", c.Op,
			"error", err,
		)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var data string
	if err := row.Scan(&doc.ID, &doc.Collection, &data, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return Document{}, err
	}
	doc.Data = json.RawMessage(data)
	return doc, nil
}

// toObject normalizes data into a JSON object keyed by top-level field.
func toObject(data any) (map[string]json.RawMessage, error) {
	var raw []byte
	switch v := data.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		var err error
		raw, err = json.Marshal(data)
		if err != nil {
			return nil, err
		}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, ErrNotObject
	}
	return obj, nil
}
