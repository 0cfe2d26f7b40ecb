package memstore

import (
	"context"
	"sync"

	"turkgpt/pkg/store"

	"github.com/patrickmn/go-cache"
)

// Store keeps each collection as an ordered slice inside a go-cache
// instance that never expires. Nothing survives a restart.
type Store struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (s *Store) collection(name string) []store.Document {
	if x, found := s.cache.Get(name); found {
		return x.([]store.Document)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, collection string, doc store.Document) error {
	if err := store.Validate(collection, nil, nil); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collection(collection)
	// copy-on-write so slices handed to readers are never appended to
	next := make([]store.Document, len(docs), len(docs)+1)
	copy(next, docs)
	next = append(next, doc.Clone())
	s.cache.Set(collection, next, cache.NoExpiration)
	return nil
}

func (s *Store) Find(ctx context.Context, collection string, filter store.Filter, sorts []store.Sort, limit int) ([]store.Document, error) {
	if err := store.Validate(collection, filter, sorts); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	docs := s.collection(collection)
	s.mu.Unlock()

	matched := store.Apply(docs, filter, sorts, limit)
	out := make([]store.Document, len(matched))
	for i, d := range matched {
		out[i] = d.Clone()
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, collection string, filter store.Filter) (int64, error) {
	if err := store.Validate(collection, filter, nil); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collection(collection)
	kept := make([]store.Document, 0, len(docs))
	var removed int64
	for _, d := range docs {
		if store.Match(d, filter) {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	s.cache.Set(collection, kept, cache.NoExpiration)
	return removed, nil
}

func (s *Store) Close() error {
	s.cache.Flush()
	return nil
}
