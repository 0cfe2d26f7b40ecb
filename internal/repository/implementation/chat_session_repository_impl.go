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

type ChatSessionRepositoryImpl struct {
	store  store.Store
	mapper *mapper.ChatMapper
}

func NewChatSessionRepository(s store.Store) contract.ChatSessionRepository {
	return &ChatSessionRepositoryImpl{
		store:  s,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatSessionRepositoryImpl) Create(ctx context.Context, session *entity.ChatSession) error {
	return r.store.Insert(ctx, constant.ChatSessionCollection, r.mapper.ChatSessionToDocument(session))
}

func (r *ChatSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	q := specification.Build(specification.ByID{ID: id})
	return r.store.Delete(ctx, constant.ChatSessionCollection, q.Filter)
}

func (r *ChatSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	sessions, err := r.FindAll(ctx, append(specs, specification.Limit{N: 1})...)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

func (r *ChatSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	q := specification.Build(specs...)
	docs, err := r.store.Find(ctx, constant.ChatSessionCollection, q.Filter, q.Sorts, q.Limit)
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.ChatSession, 0, len(docs))
	for _, doc := range docs {
		e, err := r.mapper.ChatSessionToEntity(doc)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}
