package avatarImageRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/persistence"
	ports "github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
	"github.com/google/uuid"
)

type imageColumns struct {
	TableName       string
	ID              string
	AvatarID        string
	FilePath        string
	Category        string
	Subcategory     string
	Tags            string
	Mood            string
	TimeOfDay       string
	Setting         string
	OutfitStyle     string
	CaptionTemplate string
	SendCount       string
	CreatedAt       string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns imageColumns
}

// New создаёт репозиторий библиотеки картинок аватаров
func New(db persistence.Persistence, log *slog.Logger) ports.IAvatarImageRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: imageColumns{
			TableName:       "avatar_images",
			ID:              "id",
			AvatarID:        "avatar_id",
			FilePath:        "file_path",
			Category:        "category",
			Subcategory:     "subcategory",
			Tags:            "tags",
			Mood:            "mood",
			TimeOfDay:       "time_of_day",
			Setting:         "setting",
			OutfitStyle:     "outfit_style",
			CaptionTemplate: "caption_template",
			SendCount:       "send_count",
			CreatedAt:       "created_at",
		},
	}
}

func (r *Repository) columnList() []string {
	return []string{
		r.columns.ID,
		r.columns.AvatarID,
		r.columns.FilePath,
		r.columns.Category,
		r.columns.Subcategory,
		r.columns.Tags,
		r.columns.Mood,
		r.columns.TimeOfDay,
		r.columns.Setting,
		r.columns.OutfitStyle,
		r.columns.CaptionTemplate,
		r.columns.SendCount,
		r.columns.CreatedAt,
	}
}

// allColumns список колонок, prefix добавляется к каждой (алиас таблицы)
func (r *Repository) allColumns(prefix string) string {
	cols := r.columnList()
	for i := range cols {
		cols[i] = prefix + cols[i]
	}
	return strings.Join(cols, ", ")
}

// leastSentOrder порядок "реже всего отправленные первыми", с детерминированным добиванием
func (r *Repository) leastSentOrder(prefix string) string {
	return fmt.Sprintf("%s%s ASC, %s%s ASC, %s%s ASC",
		prefix, r.columns.SendCount,
		prefix, r.columns.CreatedAt,
		prefix, r.columns.ID)
}

// SelectFresh картинки категории, которые пользователь ещё не получал от этого аватара
func (r *Repository) SelectFresh(ctx context.Context, avatarID string, category domain.ImageCategory, userID uuid.UUID, limit int) ([]*domain.AvatarImage, error) {
	var images []*domain.AvatarImage
	query := fmt.Sprintf(`SELECT %s FROM %s ai WHERE ai.%s = $1 AND ai.%s = $2 AND NOT EXISTS (SELECT 1 FROM user_received_images uri WHERE uri.image_id = ai.%s AND uri.user_id = $3 AND uri.avatar_id = $1) ORDER BY %s LIMIT $4`,
		r.allColumns("ai."),
		r.columns.TableName,
		r.columns.AvatarID,
		r.columns.Category,
		r.columns.ID,
		r.leastSentOrder("ai."))
	if err := r.db.Select(ctx, &images, query, avatarID, category.String(), userID, limit); err != nil {
		r.Log.Error("failed to select fresh images",
			"error", err,
			"avatar_id", avatarID,
			"category", category,
			"user_id", userID)
		return nil, fmt.Errorf("failed to select fresh images: %w", err)
	}
	return images, nil
}

// SelectLeastSent все картинки категории по возрастанию send_count
func (r *Repository) SelectLeastSent(ctx context.Context, avatarID string, category domain.ImageCategory, limit int) ([]*domain.AvatarImage, error) {
	var images []*domain.AvatarImage
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s LIMIT $3`,
		r.allColumns(""),
		r.columns.TableName,
		r.columns.AvatarID,
		r.columns.Category,
		r.leastSentOrder(""))
	if err := r.db.Select(ctx, &images, query, avatarID, category.String(), limit); err != nil {
		r.Log.Error("failed to select least sent images",
			"error", err,
			"avatar_id", avatarID,
			"category", category)
		return nil, fmt.Errorf("failed to select least sent images: %w", err)
	}
	return images, nil
}

// IncrementSendCount атомарно увеличивает send_count одной строки на 1
func (r *Repository) IncrementSendCount(ctx context.Context, imageID uuid.UUID) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		r.columns.TableName,
		r.columns.SendCount,
		r.columns.SendCount,
		r.columns.ID)
	affected, err := r.db.ExecWithResult(ctx, query, imageID)
	if err != nil {
		r.Log.Error("failed to increment send count",
			"error", err,
			"image_id", imageID)
		return fmt.Errorf("failed to increment send count: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("failed to increment send count: %w", domain.ErrImageNotFound)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, imageID uuid.UUID) (*domain.AvatarImage, error) {
	var image domain.AvatarImage
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(""),
		r.columns.TableName,
		r.columns.ID)
	if err := r.db.Get(ctx, &image, query, imageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrImageNotFound
		}
		r.Log.Error("failed to get image",
			"error", err,
			"image_id", imageID)
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return &image, nil
}

// Upsert создаёт картинку или обновляет её метаданные. send_count при обновлении не трогается
func (r *Repository) Upsert(ctx context.Context, image *domain.AvatarImage) error {
	cols := r.columnList()
	named := make([]string, len(cols))
	for i, c := range cols {
		named[i] = ":" + c
	}

	updatable := []string{
		r.columns.FilePath,
		r.columns.Category,
		r.columns.Subcategory,
		r.columns.Tags,
		r.columns.Mood,
		r.columns.TimeOfDay,
		r.columns.Setting,
		r.columns.OutfitStyle,
		r.columns.CaptionTemplate,
	}
	sets := make([]string, len(updatable))
	for i, c := range updatable {
		sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", c, c)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s`,
		r.columns.TableName,
		strings.Join(cols, ", "),
		strings.Join(named, ", "),
		r.columns.ID,
		strings.Join(sets, ", "))
	if err := r.db.NamedExec(ctx, query, image); err != nil {
		r.Log.Error("failed to upsert image",
			"error", err,
			"image_id", image.ID,
			"avatar_id", image.AvatarID,
			"file_path", image.FilePath)
		return fmt.Errorf("failed to upsert image: %w", err)
	}
	r.Log.Debug("image upserted",
		"image_id", image.ID,
		"avatar_id", image.AvatarID,
		"category", image.Category)
	return nil
}

// ExposureStats размер библиотеки и количество отправок по каждому аватару
func (r *Repository) ExposureStats(ctx context.Context) ([]domain.ExposureStats, error) {
	var stats []domain.ExposureStats
	query := fmt.Sprintf(`SELECT ai.%s AS avatar_id, COUNT(DISTINCT ai.%s) AS library_size, COUNT(uri.id) AS received_images FROM %s ai LEFT JOIN user_received_images uri ON uri.image_id = ai.%s GROUP BY ai.%s ORDER BY ai.%s`,
		r.columns.AvatarID,
		r.columns.ID,
		r.columns.TableName,
		r.columns.ID,
		r.columns.AvatarID,
		r.columns.AvatarID)
	if err := r.db.Select(ctx, &stats, query); err != nil {
		r.Log.Error("failed to load exposure stats", "error", err)
		return nil, fmt.Errorf("failed to load exposure stats: %w", err)
	}
	return stats, nil
}
