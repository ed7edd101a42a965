package repository

import (
	"context"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
)

type IAvatarRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Avatar, error)
	ListActive(ctx context.Context, tiers []domain.Tier) ([]*domain.Avatar, error)
	Upsert(ctx context.Context, avatar *domain.Avatar) error
}
