package implementation

import (
	"context"

	"turkgpt/internal/constant"
	"turkgpt/internal/entity"
	"turkgpt/internal/mapper"
	"turkgpt/internal/repository/contract"
	"turkgpt/internal/repository/specification"
	"turkgpt/pkg/store"

	"github.com/google/uuid"
)

type ChatMessageRepositoryImpl struct {
	store  store.Store
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(s store.Store) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		store:  s,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	return r.store.Insert(ctx, constant.ChatMessageCollection, r.mapper.ChatMessageToDocument(message))
}

func (r *ChatMessageRepositoryImpl) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) (int64, error) {
	q := specification.Build(specification.ByChatSessionID{ChatSessionID: sessionId})
	return r.store.Delete(ctx, constant.ChatMessageCollection, q.Filter)
}

func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	q := specification.Build(specs...)
	docs, err := r.store.Find(ctx, constant.ChatMessageCollection, q.Filter, q.Sorts, q.Limit)
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.ChatMessage, 0, len(docs))
	for _, doc := range docs {
		e, err := r.mapper.ChatMessageToEntity(doc)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}
