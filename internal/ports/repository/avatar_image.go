package repository

import (
	"context"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/google/uuid"
)

// IAvatarImageRepo библиотека картинок аватаров
type IAvatarImageRepo interface {
	// SelectFresh картинки категории, которые пользователь ещё не получал от аватара, по возрастанию send_count
	SelectFresh(ctx context.Context, avatarID string, category domain.ImageCategory, userID uuid.UUID, limit int) ([]*domain.AvatarImage, error)
	// SelectLeastSent все картинки категории по возрастанию send_count
	SelectLeastSent(ctx context.Context, avatarID string, category domain.ImageCategory, limit int) ([]*domain.AvatarImage, error)
	IncrementSendCount(ctx context.Context, imageID uuid.UUID) error
	GetByID(ctx context.Context, imageID uuid.UUID) (*domain.AvatarImage, error)
	Upsert(ctx context.Context, image *domain.AvatarImage) error
	ExposureStats(ctx context.Context) ([]domain.ExposureStats, error)
}
