package repository

import (
	"context"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/google/uuid"
)

// IUsageRepo дневные счётчики в Postgres
type IUsageRepo interface {
	Get(ctx context.Context, userID uuid.UUID, kind domain.QuotaKind, day time.Time) (int64, error)
	Increment(ctx context.Context, userID uuid.UUID, kind domain.QuotaKind, day time.Time) (int64, error)
}
