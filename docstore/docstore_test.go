// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	th "github.com/launchdarkly/go-test-helpers/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/newsdesk/db"
	"github.com/danielhkuo/newsdesk/notify"
)

func newTestStore(t *testing.T) (*Store, *notify.Local) {
	t.Helper()
	conn, err := db.Open(db.SQLite, filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.CreateSchema(conn))

	n := notify.NewLocal()
	t.Cleanup(func() { n.Close() })
	return New(conn, db.SQLite, n), n
}

type item struct {
	Name  string `json:"name"`
	Rank  string `json:"rank"`
	Count int    `json:"count"`
}

func TestCreateGet(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "items", item{Name: "a", Count: 1})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.Get(ctx, "items", id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "items", doc.Collection)

	var got item
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, item{Name: "a", Count: 1}, got)
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get(context.Background(), "items", "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreate_RejectsNonObject(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Create(context.Background(), "items", []int{1, 2})
	assert.True(t, errors.Is(err, ErrNotObject))
}

func TestUpdate_MergesTopLevelFields(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "items", item{Name: "a", Rank: "x", Count: 1})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "items", id, map[string]any{"count": 5}))

	doc, err := s.Get(ctx, "items", id)
	require.NoError(t, err)
	var got item
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, item{Name: "a", Rank: "x", Count: 5}, got)
}

func TestUpdate_MissingDocument(t *testing.T) {
	s, n := newTestStore(t)
	l := n.Listen()
	defer n.Unlisten(l)

	err := s.Update(context.Background(), "items", "missing", map[string]any{"count": 1})
	assert.True(t, errors.Is(err, ErrNotFound))
	th.AssertNoMoreValues(t, l.C, 50*time.Millisecond)
}

func TestSet_CreatesThenReplaces(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "configuracion", "popup", map[string]any{"title": "a", "isEnabled": true}))
	require.NoError(t, s.Set(ctx, "configuracion", "popup", map[string]any{"title": "b"}))

	doc, err := s.Get(ctx, "configuracion", "popup")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, map[string]any{"title": "b"}, got)
}

func TestDelete(t *testing.T) {
	s, n := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "items", item{Name: "a"})
	require.NoError(t, err)

	l := n.Listen()
	defer n.Unlisten(l)

	require.NoError(t, s.Delete(ctx, "items", id))
	assert.Equal(t, notify.Change{Collection: "items", ID: id, Op: notify.OpDelete}, th.RequireValue(t, l.C, time.Second))

	_, err = s.Get(ctx, "items", id)
	assert.True(t, errors.Is(err, ErrNotFound))

	// missing documents delete silently and announce nothing
	require.NoError(t, s.Delete(ctx, "items", id))
	th.AssertNoMoreValues(t, l.C, 50*time.Millisecond)
}

func TestWritesPublishChanges(t *testing.T) {
	s, n := newTestStore(t)
	ctx := context.Background()
	l := n.Listen()
	defer n.Unlisten(l)

	id, err := s.Create(ctx, "items", item{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, notify.Change{Collection: "items", ID: id, Op: notify.OpCreate}, th.RequireValue(t, l.C, time.Second))

	require.NoError(t, s.Update(ctx, "items", id, map[string]any{"name": "b"}))
	assert.Equal(t, notify.Change{Collection: "items", ID: id, Op: notify.OpUpdate}, th.RequireValue(t, l.C, time.Second))
}

func TestQuery(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, it := range []item{
		{Name: "b", Rank: "2024-01-02"},
		{Name: "a", Rank: "2024-03-01"},
		{Name: "c", Rank: "2023-12-31"},
		{Name: "a", Rank: "2022-01-01"},
	} {
		_, err := s.Create(ctx, "items", it)
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, "other", item{Name: "a"})
	require.NoError(t, err)

	t.Run("order desc", func(t *testing.T) {
		docs, err := s.Query(ctx, "items", Query{OrderBy: "rank", Desc: true})
		require.NoError(t, err)
		require.Len(t, docs, 4)
		var ranks []string
		for _, d := range docs {
			var it item
			require.NoError(t, d.Decode(&it))
			ranks = append(ranks, it.Rank)
		}
		assert.Equal(t, []string{"2024-03-01", "2024-01-02", "2023-12-31", "2022-01-01"}, ranks)
	})

	t.Run("filter and limit", func(t *testing.T) {
		docs, err := s.Query(ctx, "items", Query{
			Where:   []Filter{{Field: "name", Value: "a"}},
			OrderBy: "rank",
			Desc:    true,
			Limit:   1,
		})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		var it item
		require.NoError(t, docs[0].Decode(&it))
		assert.Equal(t, "2024-03-01", it.Rank)
	})

	t.Run("no match", func(t *testing.T) {
		docs, err := s.Query(ctx, "items", Query{Where: []Filter{{Field: "name", Value: "zzz"}}})
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("rejects injected field names", func(t *testing.T) {
		_, err := s.Query(ctx, "items", Query{OrderBy: "rank'); DROP TABLE document; --"})
		assert.True(t, errors.Is(err, ErrInvalidField))
	})
}

func TestMutate_ConcurrentIncrementsLoseNothing(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "items", item{Name: "counter"})
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Mutate(ctx, "items", id, func(current json.RawMessage) (any, error) {
				var it item
				if err := json.Unmarshal(current, &it); err != nil {
					return nil, err
				}
				it.Count++
				return it, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	doc, err := s.Get(ctx, "items", id)
	require.NoError(t, err)
	var got item
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, workers, got.Count)
}

func TestMutate_ErrorLeavesDocumentUntouched(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "items", item{Name: "a", Count: 1})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.Mutate(ctx, "items", id, func(json.RawMessage) (any, error) {
		return nil, boom
	})
	assert.True(t, errors.Is(err, boom))

	doc, err := s.Get(ctx, "items", id)
	require.NoError(t, err)
	var got item
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, 1, got.Count)
}
