package specification

import "turkgpt/pkg/store"

// Query is the backend-neutral query a set of specifications builds up.
type Query struct {
	Filter store.Filter
	Sorts  []store.Sort
	Limit  int
}

// Specification defines the interface for query specifications
type Specification interface {
	Apply(q *Query) *Query
}

// Build folds specs into a fresh Query.
func Build(specs ...Specification) *Query {
	q := &Query{Filter: store.Filter{}}
	for _, spec := range specs {
		q = spec.Apply(q)
	}
	return q
}
