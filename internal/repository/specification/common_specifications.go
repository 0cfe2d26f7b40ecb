package specification

import (
	"turkgpt/pkg/store"

	"github.com/google/uuid"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(q *Query) *Query {
	q.Filter["id"] = s.ID.String()
	return q
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(q *Query) *Query {
	q.Sorts = append(q.Sorts, store.Sort{Field: s.Field, Desc: s.Desc})
	return q
}

type Limit struct {
	N int
}

func (s Limit) Apply(q *Query) *Query {
	q.Limit = s.N
	return q
}
