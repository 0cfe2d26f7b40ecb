package mapper

import (
	"fmt"
	"time"

	"turkgpt/internal/entity"
	"turkgpt/pkg/store"

	"github.com/google/uuid"
)

const (
	FieldId        = "id"
	FieldTitle     = "title"
	FieldCreatedAt = "created_at"
	FieldSessionId = "session_id"
	FieldRole      = "role"
	FieldContent   = "content"
	FieldTimestamp = "timestamp"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToDocument(s *entity.ChatSession) store.Document {
	if s == nil {
		return nil
	}
	return store.Document{
		FieldId:        s.Id.String(),
		FieldTitle:     s.Title,
		FieldCreatedAt: FormatTimestamp(s.CreatedAt),
	}
}

func (m *ChatMapper) ChatSessionToEntity(doc store.Document) (*entity.ChatSession, error) {
	id, err := documentUUID(doc, FieldId)
	if err != nil {
		return nil, err
	}
	createdAt, err := documentTime(doc, FieldCreatedAt)
	if err != nil {
		return nil, err
	}
	title, _ := doc[FieldTitle].(string)

	return &entity.ChatSession{
		Id:        id,
		Title:     title,
		CreatedAt: createdAt,
	}, nil
}

// Message Mappers

func (m *ChatMapper) ChatMessageToDocument(msg *entity.ChatMessage) store.Document {
	if msg == nil {
		return nil
	}
	return store.Document{
		FieldId:        msg.Id.String(),
		FieldSessionId: msg.ChatSessionId.String(),
		FieldRole:      msg.Role,
		FieldContent:   msg.Content,
		FieldTimestamp: FormatTimestamp(msg.CreatedAt),
	}
}

func (m *ChatMapper) ChatMessageToEntity(doc store.Document) (*entity.ChatMessage, error) {
	id, err := documentUUID(doc, FieldId)
	if err != nil {
		return nil, err
	}
	sessionId, err := documentUUID(doc, FieldSessionId)
	if err != nil {
		return nil, err
	}
	createdAt, err := documentTime(doc, FieldTimestamp)
	if err != nil {
		return nil, err
	}
	role, _ := doc[FieldRole].(string)
	content, _ := doc[FieldContent].(string)

	return &entity.ChatMessage{
		Id:            id,
		ChatSessionId: sessionId,
		Role:          role,
		Content:       content,
		CreatedAt:     createdAt,
	}, nil
}

func documentUUID(doc store.Document, field string) (uuid.UUID, error) {
	switch v := doc[field].(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, fmt.Errorf("field %s: %w", field, err)
		}
		return id, nil
	default:
		return uuid.Nil, fmt.Errorf("field %s: unexpected type %T", field, v)
	}
}

func documentTime(doc store.Document, field string) (time.Time, error) {
	t, err := ParseTimestamp(doc[field])
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", field, err)
	}
	return t, nil
}
