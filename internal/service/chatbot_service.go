package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"turkgpt/internal/constant"
	"turkgpt/internal/dto"
	"turkgpt/internal/entity"
	"turkgpt/internal/mapper"
	"turkgpt/internal/pkg/logger"
	"turkgpt/internal/repository/contract"
	"turkgpt/internal/repository/specification"
	"turkgpt/pkg/events"
	"turkgpt/pkg/llm"

	"github.com/google/uuid"
)

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	CreateSession(ctx context.Context, caller entity.CallerID, request *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, caller entity.CallerID) ([]*dto.SessionResponse, error)
	ListMessages(ctx context.Context, caller entity.CallerID, sessionId uuid.UUID) ([]*dto.MessageResponse, error)
	SendChat(ctx context.Context, caller entity.CallerID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, caller entity.CallerID, sessionId uuid.UUID) error
}

type ChatbotOption func(*chatbotService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ChatbotOption {
	return func(cs *chatbotService) {
		cs.now = now
	}
}

// WithLLMTimeout bounds every upstream call.
func WithLLMTimeout(d time.Duration) ChatbotOption {
	return func(cs *chatbotService) {
		if d > 0 {
			cs.llmTimeout = d
		}
	}
}

// WithLLMOptions sets the generation options passed on every call.
func WithLLMOptions(opts ...llm.Option) ChatbotOption {
	return func(cs *chatbotService) {
		cs.llmOptions = opts
	}
}

type chatbotService struct {
	sessionRepo contract.ChatSessionRepository
	messageRepo contract.ChatMessageRepository
	llmProvider llm.LLMProvider
	publisher   IPublisherService
	logger      logger.ILogger

	now        func() time.Time
	llmTimeout time.Duration
	llmOptions []llm.Option
}

func NewChatbotService(
	sessionRepo contract.ChatSessionRepository,
	messageRepo contract.ChatMessageRepository,
	llmProvider llm.LLMProvider,
	publisher IPublisherService,
	log logger.ILogger,
	opts ...ChatbotOption,
) IChatbotService {
	cs := &chatbotService{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		llmProvider: llmProvider,
		publisher:   publisher,
		logger:      log,
		now:         time.Now,
		llmTimeout:  constant.DefaultLLMTimeout,
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// CreateSession creates a new chat session
func (cs *chatbotService) CreateSession(ctx context.Context, caller entity.CallerID, request *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	title := ""
	if request != nil {
		title = strings.TrimSpace(request.Title)
	}
	if title == "" {
		title = constant.DefaultSessionTitle
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	chatSession := &entity.ChatSession{
		Id:        id,
		Title:     title,
		CreatedAt: cs.timestamp(),
	}

	if err := cs.sessionRepo.Create(ctx, chatSession); err != nil {
		return nil, cs.storageFailure("CreateSession", caller, err)
	}

	cs.logger.Info("ChatbotService", "Session created", map[string]interface{}{
		"session_id": chatSession.Id.String(),
		"caller_id":  caller.String(),
	})

	cs.publish(ctx, events.SessionCreated, map[string]interface{}{
		"session_id": chatSession.Id.String(),
		"title":      chatSession.Title,
		"caller_id":  caller.String(),
	})

	return toSessionResponse(chatSession), nil
}

// ListSessions returns every session, newest first.
func (cs *chatbotService) ListSessions(ctx context.Context, caller entity.CallerID) ([]*dto.SessionResponse, error) {
	sessions, err := cs.sessionRepo.FindAll(
		ctx,
		specification.Newest{},
		specification.Limit{N: constant.MaxListResults},
	)
	if err != nil {
		return nil, cs.storageFailure("ListSessions", caller, err)
	}

	res := make([]*dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		res = append(res, toSessionResponse(s))
	}
	return res, nil
}

// ListMessages returns the messages of a session, oldest first. Unknown
// sessions have no messages.
func (cs *chatbotService) ListMessages(ctx context.Context, caller entity.CallerID, sessionId uuid.UUID) ([]*dto.MessageResponse, error) {
	messages, err := cs.messageRepo.FindAll(
		ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.Chronological{},
		specification.Limit{N: constant.MaxListResults},
	)
	if err != nil {
		return nil, cs.storageFailure("ListMessages", caller, err)
	}

	res := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, toMessageResponse(m))
	}
	return res, nil
}

// SendChat stores the user message, asks the model with the whole
// history and stores the reply. A failed model call leaves the user
// message in place.
func (cs *chatbotService) SendChat(ctx context.Context, caller entity.CallerID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	chatSession, err := cs.sessionRepo.FindOne(ctx, specification.ByID{ID: request.SessionId})
	if err != nil {
		return nil, cs.storageFailure("SendChat", caller, err)
	}
	if chatSession == nil {
		return nil, ErrSessionNotFound
	}

	userMessage, err := cs.storeMessage(ctx, caller, chatSession.Id, constant.ChatMessageRoleUser, request.Content)
	if err != nil {
		return nil, err
	}

	history, err := cs.loadHistory(ctx, chatSession.Id)
	if err != nil {
		return nil, cs.storageFailure("SendChat", caller, err)
	}

	llmCtx, cancel := context.WithTimeout(ctx, cs.llmTimeout)
	defer cancel()

	reply, err := llm.Generate(llmCtx, cs.llmProvider, constant.ChatSystemPrompt, history, cs.llmOptions...)
	if err != nil {
		cs.logger.Error("ChatbotService", "LLM call failed", map[string]interface{}{
			"error":      err.Error(),
			"session_id": chatSession.Id.String(),
			"caller_id":  caller.String(),
			"history":    len(history),
		})
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFailure, err)
	}

	assistantMessage, err := cs.storeMessage(ctx, caller, chatSession.Id, constant.ChatMessageRoleAssistant, reply)
	if err != nil {
		return nil, err
	}

	return &dto.SendChatResponse{
		UserMessage:      toMessageResponse(userMessage),
		AssistantMessage: toMessageResponse(assistantMessage),
	}, nil
}

// DeleteSession removes the messages first, then the session. The two
// deletes are not atomic.
func (cs *chatbotService) DeleteSession(ctx context.Context, caller entity.CallerID, sessionId uuid.UUID) error {
	deletedMessages, err := cs.messageRepo.DeleteByChatSessionId(ctx, sessionId)
	if err != nil {
		return cs.storageFailure("DeleteSession", caller, err)
	}

	deleted, err := cs.sessionRepo.Delete(ctx, sessionId)
	if err != nil {
		return cs.storageFailure("DeleteSession", caller, err)
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}

	cs.logger.Info("ChatbotService", "Session deleted", map[string]interface{}{
		"session_id":       sessionId.String(),
		"messages_deleted": deletedMessages,
		"caller_id":        caller.String(),
	})

	cs.publish(ctx, events.SessionDeleted, map[string]interface{}{
		"session_id":       sessionId.String(),
		"messages_deleted": deletedMessages,
		"caller_id":        caller.String(),
	})
	return nil
}

func (cs *chatbotService) storeMessage(ctx context.Context, caller entity.CallerID, sessionId uuid.UUID, role, content string) (*entity.ChatMessage, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	chatMessage := &entity.ChatMessage{
		Id:            id,
		ChatSessionId: sessionId,
		Role:          role,
		Content:       content,
		CreatedAt:     cs.timestamp(),
	}

	if err := cs.messageRepo.Create(ctx, chatMessage); err != nil {
		return nil, cs.storageFailure("SendChat", caller, err)
	}

	cs.publish(ctx, events.MessageCreated, map[string]interface{}{
		"session_id": sessionId.String(),
		"message_id": chatMessage.Id.String(),
		"role":       chatMessage.Role,
		"content":    chatMessage.Content,
		"timestamp":  mapper.FormatTimestamp(chatMessage.CreatedAt),
		"caller_id":  caller.String(),
	})
	return chatMessage, nil
}

// loadHistory returns the newest MaxListResults messages in chronological
// order, so the message just stored is always part of the context.
func (cs *chatbotService) loadHistory(ctx context.Context, sessionId uuid.UUID) ([]llm.Message, error) {
	newest, err := cs.messageRepo.FindAll(
		ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "timestamp", Desc: true},
		specification.Limit{N: constant.MaxListResults},
	)
	if err != nil {
		return nil, err
	}

	messages := oldestFirst(newest)
	history := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}
	return history, nil
}

// oldestFirst reverses a newest-first list. Messages sharing a timestamp
// already come in insertion order and keep it.
func oldestFirst(newest []*entity.ChatMessage) []*entity.ChatMessage {
	out := make([]*entity.ChatMessage, 0, len(newest))
	end := len(newest)
	for end > 0 {
		start := end - 1
		for start > 0 && newest[start-1].CreatedAt.Equal(newest[end-1].CreatedAt) {
			start--
		}
		out = append(out, newest[start:end]...)
		end = start
	}
	return out
}

// timestamp is truncated to the stored precision so returned values
// equal what a later read produces.
func (cs *chatbotService) timestamp() time.Time {
	return cs.now().UTC().Truncate(time.Microsecond)
}

func (cs *chatbotService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if cs.publisher == nil {
		return
	}
	if err := cs.publisher.Publish(ctx, events.New(eventType, data, cs.now().UTC())); err != nil {
		cs.logger.Warn("ChatbotService", "Failed to publish event", map[string]interface{}{
			"error": err.Error(),
			"type":  eventType,
		})
	}
}

func (cs *chatbotService) storageFailure(op string, caller entity.CallerID, err error) error {
	if errors.Is(err, ErrStorageFailure) {
		return err
	}
	cs.logger.Error("ChatbotService", op+" storage failure", map[string]interface{}{
		"error":     err.Error(),
		"caller_id": caller.String(),
	})
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}

func toSessionResponse(s *entity.ChatSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:        s.Id,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
	}
}

func toMessageResponse(m *entity.ChatMessage) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:        m.Id,
		SessionId: m.ChatSessionId,
		Role:      m.Role,
		Content:   m.Content,
		Timestamp: m.CreatedAt,
	}
}
