// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"turkgpt/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises newStore against the shared contract. newStore must
// return an empty store; Run closes it.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	ctx := context.Background()

	t.Run("insert and find all", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		require.NoError(t, s.Insert(ctx, "items", store.Document{"id": "a", "n": 1}))
		require.NoError(t, s.Insert(ctx, "items", store.Document{"id": "b", "n": 2}))

		docs, err := s.Find(ctx, "items", nil, nil, 0)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "a", docs[0]["id"])
		assert.Equal(t, "b", docs[1]["id"])
	})

	t.Run("collections are isolated", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		require.NoError(t, s.Insert(ctx, "left", store.Document{"id": "x"}))

		docs, err := s.Find(ctx, "right", nil, nil, 0)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("filter by equality", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		require.NoError(t, s.Insert(ctx, "messages", store.Document{"id": "1", "session_id": "s1", "role": "user"}))
		require.NoError(t, s.Insert(ctx, "messages", store.Document{"id": "2", "session_id": "s2", "role": "user"}))
		require.NoError(t, s.Insert(ctx, "messages", store.Document{"id": "3", "session_id": "s1", "role": "assistant"}))

		docs, err := s.Find(ctx, "messages", store.Filter{"session_id": "s1"}, nil, 0)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "1", docs[0]["id"])
		assert.Equal(t, "3", docs[1]["id"])

		docs, err = s.Find(ctx, "messages", store.Filter{"session_id": "s1", "role": "assistant"}, nil, 0)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "3", docs[0]["id"])
	})

	t.Run("sort with insertion order ties", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		stamps := []string{
			"2024-01-01T10:00:00.000002Z",
			"2024-01-01T10:00:00.000001Z",
			"2024-01-01T10:00:00.000002Z",
			"2024-01-01T10:00:00.000000Z",
		}
		for i, ts := range stamps {
			require.NoError(t, s.Insert(ctx, "messages", store.Document{"id": fmt.Sprint(i), "timestamp": ts}))
		}

		docs, err := s.Find(ctx, "messages", nil, []store.Sort{{Field: "timestamp"}}, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "1", "0", "2"}, ids(docs))

		docs, err = s.Find(ctx, "messages", nil, []store.Sort{{Field: "timestamp", Desc: true}}, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "2", "1", "3"}, ids(docs))
	})

	t.Run("limit", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		for i := 0; i < 5; i++ {
			require.NoError(t, s.Insert(ctx, "items", store.Document{"id": fmt.Sprint(i)}))
		}

		docs, err := s.Find(ctx, "items", nil, nil, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "1", "2"}, ids(docs))
	})

	t.Run("delete reports count", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		for i := 0; i < 3; i++ {
			require.NoError(t, s.Insert(ctx, "messages", store.Document{"id": fmt.Sprint(i), "session_id": "gone"}))
		}
		require.NoError(t, s.Insert(ctx, "messages", store.Document{"id": "keep", "session_id": "kept"}))

		n, err := s.Delete(ctx, "messages", store.Filter{"session_id": "gone"})
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		n, err = s.Delete(ctx, "messages", store.Filter{"session_id": "gone"})
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)

		docs, err := s.Find(ctx, "messages", nil, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"keep"}, ids(docs))
	})

	t.Run("rejects unsafe names", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		err := s.Insert(ctx, "bad name", store.Document{"id": "1"})
		assert.ErrorIs(t, err, store.ErrInvalidCollection)

		_, err = s.Find(ctx, "items", store.Filter{"id'; drop": "1"}, nil, 0)
		assert.ErrorIs(t, err, store.ErrInvalidField)

		_, err = s.Find(ctx, "items", nil, []store.Sort{{Field: "a-b"}}, 0)
		assert.ErrorIs(t, err, store.ErrInvalidField)
	})

	t.Run("concurrent inserts", func(t *testing.T) {
		s := newStore(t)
		defer s.Close()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, s.Insert(ctx, "items", store.Document{"id": fmt.Sprint(i)}))
			}(i)
		}
		wg.Wait()

		docs, err := s.Find(ctx, "items", nil, nil, 0)
		require.NoError(t, err)
		assert.Len(t, docs, 20)
	})
}

func ids(docs []store.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, fmt.Sprint(d["id"]))
	}
	return out
}
