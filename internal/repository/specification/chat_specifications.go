package specification

import (
	"github.com/google/uuid"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(q *Query) *Query {
	q.Filter["session_id"] = s.ChatSessionID.String()
	return q
}

// Newest orders sessions by creation time, newest first.
type Newest struct{}

func (Newest) Apply(q *Query) *Query {
	return OrderBy{Field: "created_at", Desc: true}.Apply(q)
}

// Chronological orders messages oldest first. Ties keep insertion order.
type Chronological struct{}

func (Chronological) Apply(q *Query) *Query {
	return OrderBy{Field: "timestamp"}.Apply(q)
}
