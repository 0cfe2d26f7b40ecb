package events

import "time"

const (
	SessionCreated = "chat.session.created"
	SessionDeleted = "chat.session.deleted"
	MessageCreated = "chat.message.created"
)

// New builds a BaseEvent stamped with occurredAt.
func New(eventType string, data map[string]interface{}, occurredAt time.Time) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: occurredAt,
	}
}

// SessionID returns the "session_id" payload field, if any.
func SessionID(e Event) string {
	if e == nil {
		return ""
	}
	id, _ := e.Payload()["session_id"].(string)
	return id
}
