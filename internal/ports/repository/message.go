package repository

import (
	"context"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/persistence"
	"github.com/google/uuid"
)

type IMessageRepo interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	// ListByConversation страница сообщений в хронологическом порядке
	ListByConversation(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error)
	// Recent последние limit сообщений в хронологическом порядке
	Recent(ctx context.Context, conversationID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
	DeleteByConversationTx(ctx context.Context, tx persistence.Transaction, conversationID uuid.UUID) error
}
