package usecase

import (
	"context"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/google/uuid"
)

// ICatalogUseCase аватары и диалоги пользователя
type ICatalogUseCase interface {
	ListAvatars(ctx context.Context, userID *uuid.UUID) ([]*domain.Avatar, error)
	GetAvatar(ctx context.Context, userID *uuid.UUID, avatarID string) (*domain.Avatar, error)
	// LoadAvatar аватар без проверки уровня, через кэш
	LoadAvatar(ctx context.Context, avatarID string) (*domain.Avatar, error)

	StartConversation(ctx context.Context, userID uuid.UUID, avatarID string) (*domain.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]*domain.ConversationSummary, error)
	GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error)
	ListMessages(ctx context.Context, userID, conversationID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error)
	DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error
}

// IChatUseCase обработка одного входящего сообщения в диалоге
type IChatUseCase interface {
	HandleMessage(ctx context.Context, turn domain.IncomingMessage, out domain.FrameSink) error
}
