package store

import (
	"context"
	"errors"
	"regexp"
)

// Document is one stored record. Values are whatever the caller put in;
// backends that round-trip through JSON return numbers as float64 and
// timestamps as the text the caller wrote.
type Document map[string]interface{}

// Filter matches documents whose fields equal every given value.
// An empty filter matches the whole collection.
type Filter map[string]interface{}

// Sort orders results by one document field.
type Sort struct {
	Field string
	Desc  bool
}

// Store is the document store contract shared by every backend.
// Implementations must be safe for concurrent use.
type Store interface {
	Insert(ctx context.Context, collection string, doc Document) error

	// Find returns matching documents ordered by sorts. Documents that
	// compare equal keep insertion order. limit <= 0 means no limit.
	Find(ctx context.Context, collection string, filter Filter, sorts []Sort, limit int) ([]Document, error)

	// Delete removes matching documents and reports how many were removed.
	Delete(ctx context.Context, collection string, filter Filter) (int64, error)

	Close() error
}

var (
	ErrInvalidCollection = errors.New("store: invalid collection name")
	ErrInvalidField      = errors.New("store: invalid field name")
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// ValidateName checks collection and field names. Backends splice field
// names into queries, so only identifier-like names are accepted.
func ValidateName(name string) bool {
	return namePattern.MatchString(name)
}

// Validate checks the collection, filter and sort names of a query.
func Validate(collection string, filter Filter, sorts []Sort) error {
	if !ValidateName(collection) {
		return ErrInvalidCollection
	}
	for field := range filter {
		if !ValidateName(field) {
			return ErrInvalidField
		}
	}
	for _, s := range sorts {
		if !ValidateName(s.Field) {
			return ErrInvalidField
		}
	}
	return nil
}

// Clone returns a shallow copy so callers cannot mutate stored state.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
