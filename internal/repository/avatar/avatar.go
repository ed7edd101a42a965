package avatarRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/persistence"
	ports "github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
	"github.com/jmoiron/sqlx"
)

const avatarColumns = "id, name, tagline, personality_prompt, physical_description, profile_image_url, age, occupation, interests, tier, is_active, created_at"

type Repository struct {
	db  persistence.Persistence
	Log *slog.Logger
}

func New(db persistence.Persistence, log *slog.Logger) ports.IAvatarRepo {
	return &Repository{db: db, Log: log}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Avatar, error) {
	var avatar domain.Avatar
	query := `SELECT ` + avatarColumns + ` FROM avatars WHERE id = $1`
	if err := r.db.Get(ctx, &avatar, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAvatarNotFound
		}
		r.Log.Error("failed to get avatar",
			"error", err,
			"avatar_id", id)
		return nil, fmt.Errorf("failed to get avatar: %w", err)
	}
	return &avatar, nil
}

// ListActive активные аватары указанных уровней, по имени
func (r *Repository) ListActive(ctx context.Context, tiers []domain.Tier) ([]*domain.Avatar, error) {
	if len(tiers) == 0 {
		return []*domain.Avatar{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+avatarColumns+` FROM avatars WHERE is_active = TRUE AND tier IN (?) ORDER BY name`, tiers)
	if err != nil {
		return nil, fmt.Errorf("failed to build avatars query: %w", err)
	}

	avatars := []*domain.Avatar{}
	if err := r.db.Select(ctx, &avatars, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.Log.Error("failed to list avatars",
			"error", err,
			"tiers", tiers)
		return nil, fmt.Errorf("failed to list avatars: %w", err)
	}
	return avatars, nil
}

func (r *Repository) Upsert(ctx context.Context, avatar *domain.Avatar) error {
	query := `INSERT INTO avatars (` + avatarColumns + `)
		VALUES (:id, :name, :tagline, :personality_prompt, :physical_description, :profile_image_url, :age, :occupation, :interests, :tier, :is_active, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			tagline = EXCLUDED.tagline,
			personality_prompt = EXCLUDED.personality_prompt,
			physical_description = EXCLUDED.physical_description,
			profile_image_url = EXCLUDED.profile_image_url,
			age = EXCLUDED.age,
			occupation = EXCLUDED.occupation,
			interests = EXCLUDED.interests,
			tier = EXCLUDED.tier,
			is_active = EXCLUDED.is_active`
	if err := r.db.NamedExec(ctx, query, avatar); err != nil {
		r.Log.Error("failed to upsert avatar",
			"error", err,
			"avatar_id", avatar.ID)
		return fmt.Errorf("failed to upsert avatar: %w", err)
	}
	return nil
}
