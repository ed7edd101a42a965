package repository

import (
	"context"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/google/uuid"
)

type IUserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
}
