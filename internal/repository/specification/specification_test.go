package specification

import (
	"testing"

	"turkgpt/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	sessionID := uuid.New()

	q := Build(ByChatSessionID{ChatSessionID: sessionID}, Chronological{}, Limit{N: 10})

	assert.Equal(t, store.Filter{"session_id": sessionID.String()}, q.Filter)
	assert.Equal(t, []store.Sort{{Field: "timestamp"}}, q.Sorts)
	assert.Equal(t, 10, q.Limit)
}

func TestBuild_Empty(t *testing.T) {
	q := Build()
	assert.NotNil(t, q.Filter)
	assert.Empty(t, q.Sorts)
	assert.Zero(t, q.Limit)
}

func TestNewestAndByID(t *testing.T) {
	id := uuid.New()
	q := Build(ByID{ID: id}, Newest{})

	assert.Equal(t, id.String(), q.Filter["id"])
	assert.Equal(t, []store.Sort{{Field: "created_at", Desc: true}}, q.Sorts)
}
