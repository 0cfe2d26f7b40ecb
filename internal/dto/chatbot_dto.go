package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title string `json:"title" validate:"max=200"`
}

type SessionResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	SessionId uuid.UUID `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SendChatBody is the wire form of a chat request. The session id stays
// text so an id that cannot exist is reported like an unknown one.
type SendChatBody struct {
	SessionId string `json:"session_id" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

type SendChatRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Content   string    `json:"content" validate:"required"`
}

type SendChatResponse struct {
	UserMessage      *MessageResponse `json:"user_message"`
	AssistantMessage *MessageResponse `json:"assistant_message"`
}

type DeleteSessionResponse struct {
	Message string `json:"message"`
}

type LivenessResponse struct {
	Message string `json:"message"`
}
