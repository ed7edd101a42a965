package usageRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/persistence"
	ports "github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
	"github.com/google/uuid"
)

const dayLayout = "2006-01-02"

// Repository дневные счётчики в таблице daily_usage.
// Используется, когда Redis не настроен
type Repository struct {
	db  persistence.Persistence
	Log *slog.Logger
}

func New(db persistence.Persistence, log *slog.Logger) ports.IUsageRepo {
	return &Repository{db: db, Log: log}
}

func (r *Repository) Get(ctx context.Context, userID uuid.UUID, kind domain.QuotaKind, day time.Time) (int64, error) {
	var count int64
	err := r.db.Get(ctx, &count,
		`SELECT count FROM daily_usage WHERE user_id = $1 AND day = $2 AND kind = $3`,
		userID, day.UTC().Format(dayLayout), string(kind))
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		r.Log.Error("failed to get daily usage",
			"error", err,
			"user_id", userID,
			"kind", kind)
		return 0, fmt.Errorf("failed to get daily usage: %w", err)
	}
	return count, nil
}

// Increment атомарно увеличивает счётчик дня и возвращает новое значение
func (r *Repository) Increment(ctx context.Context, userID uuid.UUID, kind domain.QuotaKind, day time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO daily_usage (user_id, day, kind, count) VALUES ($1, $2, $3, 1) ON CONFLICT (user_id, day, kind) DO UPDATE SET count = daily_usage.count + 1 RETURNING count`,
		userID, day.UTC().Format(dayLayout), string(kind)).Scan(&count)
	if err != nil {
		r.Log.Error("failed to increment daily usage",
			"error", err,
			"user_id", userID,
			"kind", kind)
		return 0, fmt.Errorf("failed to increment daily usage: %w", err)
	}
	return count, nil
}
