package repository

import (
	"context"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/persistence"
	"github.com/google/uuid"
)

type IConversationRepo interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	GetByUserAndAvatar(ctx context.Context, userID uuid.UUID, avatarID string) (*domain.Conversation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ConversationSummary, error)
	UpdateLastMessage(ctx context.Context, id uuid.UUID, lastMessage string, at time.Time) error

	WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error
	DeleteTx(ctx context.Context, tx persistence.Transaction, id uuid.UUID) error
}
