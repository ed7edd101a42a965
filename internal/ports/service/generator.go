package service

import (
	"context"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
)

// ITextGenerator генерирует ответ аватара по истории диалога
type ITextGenerator interface {
	Generate(ctx context.Context, avatar *domain.Avatar, history []domain.ChatTurn) (string, error)
}
