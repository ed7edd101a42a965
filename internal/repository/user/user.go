package userRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/persistence"
	ports "github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
	"github.com/google/uuid"
)

type userColumns struct {
	TableName          string
	ID                 string
	Email              string
	SubscriptionTier   string
	SubscriptionStatus string
	CreatedAt          string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns userColumns
}

// New создаёт репозиторий пользователей
func New(db persistence.Persistence, log *slog.Logger) ports.IUserRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: userColumns{
			TableName:          "users",
			ID:                 "id",
			Email:              "email",
			SubscriptionTier:   "subscription_tier",
			SubscriptionStatus: "subscription_status",
			CreatedAt:          "created_at",
		},
	}
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.Email,
		r.columns.SubscriptionTier,
		r.columns.SubscriptionStatus,
		r.columns.CreatedAt)
}

// GetByID возвращает domain.ErrUserNotFound, если пользователя нет
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	if err := r.db.Get(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Debug("user not found", "user_id", id)
			return nil, domain.ErrUserNotFound
		}
		r.Log.Error("failed to get user by id",
			"error", err,
			"user_id", id)
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Upsert создаёт пользователя или обновляет подписку
func (r *Repository) Upsert(ctx context.Context, user *domain.User) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s`,
		r.columns.TableName,
		r.allColumns(),
		r.columns.ID,
		r.columns.SubscriptionTier, r.columns.SubscriptionTier,
		r.columns.SubscriptionStatus, r.columns.SubscriptionStatus)
	err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.SubscriptionTier,
		user.SubscriptionStatus,
		user.CreatedAt)
	if err != nil {
		r.Log.Error("failed to upsert user",
			"error", err,
			"user_id", user.ID)
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}
