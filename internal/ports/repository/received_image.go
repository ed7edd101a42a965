package repository

import (
	"context"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
)

// IReceivedImageRepo журнал отправленных пользователям картинок, только вставка
type IReceivedImageRepo interface {
	Create(ctx context.Context, record *domain.UserReceivedImage) error
}
