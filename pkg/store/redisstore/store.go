package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"turkgpt/pkg/store"

	"github.com/redis/go-redis/v9"
)

// Store keeps every collection as a redis list of JSON documents under
// "<namespace>:<collection>". List position is insertion order.
// Filtering and sorting happen in process.
type Store struct {
	rdb       *redis.Client
	namespace string
}

var _ store.Store = (*Store)(nil)

func New(rdb *redis.Client, namespace string) *Store {
	if namespace == "" {
		namespace = "turkgpt"
	}
	return &Store{rdb: rdb, namespace: namespace}
}

func (s *Store) key(collection string) string {
	return s.namespace + ":" + collection
}

func (s *Store) Insert(ctx context.Context, collection string, doc store.Document) error {
	if err := store.Validate(collection, nil, nil); err != nil {
		return err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	return s.rdb.RPush(ctx, s.key(collection), body).Err()
}

type entry struct {
	raw string
	doc store.Document
}

func (s *Store) load(ctx context.Context, collection string) ([]entry, error) {
	raws, err := s.rdb.LRange(ctx, s.key(collection), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(raws))
	for i, raw := range raws {
		var doc store.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("unmarshal %s[%d]: %w", collection, i, err)
		}
		entries = append(entries, entry{raw: raw, doc: doc})
	}
	return entries, nil
}

func (s *Store) Find(ctx context.Context, collection string, filter store.Filter, sorts []store.Sort, limit int) ([]store.Document, error) {
	if err := store.Validate(collection, filter, sorts); err != nil {
		return nil, err
	}

	entries, err := s.load(ctx, collection)
	if err != nil {
		return nil, err
	}

	docs := make([]store.Document, len(entries))
	for i, e := range entries {
		docs[i] = e.doc
	}
	return store.Apply(docs, filter, sorts, limit), nil
}

// Delete is not atomic: documents pushed between the read and the
// removals are left alone.
func (s *Store) Delete(ctx context.Context, collection string, filter store.Filter) (int64, error) {
	if err := store.Validate(collection, filter, nil); err != nil {
		return 0, err
	}

	entries, err := s.load(ctx, collection)
	if err != nil {
		return 0, err
	}

	var removed int64
	for _, e := range entries {
		if !store.Match(e.doc, filter) {
			continue
		}
		n, err := s.rdb.LRem(ctx, s.key(collection), 1, e.raw).Result()
		if err != nil {
			return removed, err
		}
		removed += n
	}
	return removed, nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
