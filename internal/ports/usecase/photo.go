package usecase

import (
	"context"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/google/uuid"
)

type IPhotoUseCase interface {
	Resolve(ctx context.Context, target domain.PhotoTarget, text string) (*domain.PhotoResult, error)
	Deliver(ctx context.Context, target domain.PhotoTarget, intent *domain.PhotoIntent) (*domain.PhotoResult, error)
}

type IQuotaUseCase interface {
	CheckMessageLimit(ctx context.Context, userID uuid.UUID) (bool, error)
	IncrementMessageCount(ctx context.Context, userID uuid.UUID) error
	CheckImageLimit(ctx context.Context, userID uuid.UUID) (bool, error)
	IncrementImageCount(ctx context.Context, userID uuid.UUID) error
	Remaining(ctx context.Context, userID uuid.UUID) (*domain.Usage, error)
}
