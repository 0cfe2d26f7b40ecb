package mapper

import (
	"testing"
	"time"

	"turkgpt/internal/entity"
	"turkgpt/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMapper_SessionRoundTrip(t *testing.T) {
	m := NewChatMapper()
	session := &entity.ChatSession{
		Id:        uuid.Must(uuid.NewV7()),
		Title:     "Test",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 500000, time.UTC),
	}

	doc := m.ChatSessionToDocument(session)
	assert.Equal(t, session.Id.String(), doc[FieldId])
	assert.Equal(t, "2024-05-01T12:00:00.000500Z", doc[FieldCreatedAt])

	got, err := m.ChatSessionToEntity(doc)
	require.NoError(t, err)
	assert.Equal(t, session.Id, got.Id)
	assert.Equal(t, session.Title, got.Title)
	assert.True(t, session.CreatedAt.Equal(got.CreatedAt))
}

func TestChatMapper_MessageRoundTrip(t *testing.T) {
	m := NewChatMapper()
	msg := &entity.ChatMessage{
		Id:            uuid.Must(uuid.NewV7()),
		ChatSessionId: uuid.Must(uuid.NewV7()),
		Role:          "assistant",
		Content:       "Merhaba!",
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}

	got, err := m.ChatMessageToEntity(m.ChatMessageToDocument(msg))
	require.NoError(t, err)
	assert.Equal(t, msg.Id, got.Id)
	assert.Equal(t, msg.ChatSessionId, got.ChatSessionId)
	assert.Equal(t, msg.Role, got.Role)
	assert.Equal(t, msg.Content, got.Content)
	assert.True(t, msg.CreatedAt.Equal(got.CreatedAt))
}

func TestChatMapper_NativeTimeInDocument(t *testing.T) {
	now := time.Now().UTC()
	doc := store.Document{
		FieldId:        uuid.NewString(),
		FieldTitle:     "native",
		FieldCreatedAt: now,
	}

	got, err := NewChatMapper().ChatSessionToEntity(doc)
	require.NoError(t, err)
	assert.True(t, now.Equal(got.CreatedAt))
}

func TestChatMapper_BadDocument(t *testing.T) {
	m := NewChatMapper()

	_, err := m.ChatSessionToEntity(store.Document{FieldId: "not-a-uuid", FieldCreatedAt: "2024-01-01T00:00:00.000000Z"})
	assert.Error(t, err)

	_, err = m.ChatMessageToEntity(store.Document{FieldId: uuid.NewString(), FieldSessionId: uuid.NewString()})
	assert.Error(t, err)
}
