package receivedImageRepo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/persistence"
	ports "github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
)

type receivedColumns struct {
	TableName      string
	ID             string
	UserID         string
	AvatarID       string
	ImageID        string
	ConversationID string
	SentAt         string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns receivedColumns
}

// New создаёт репозиторий журнала отправленных картинок
func New(db persistence.Persistence, log *slog.Logger) ports.IReceivedImageRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: receivedColumns{
			TableName:      "user_received_images",
			ID:             "id",
			UserID:         "user_id",
			AvatarID:       "avatar_id",
			ImageID:        "image_id",
			ConversationID: "conversation_id",
			SentAt:         "sent_at",
		},
	}
}

// Create добавляет запись об отправке. Записи не обновляются и не удаляются
func (r *Repository) Create(ctx context.Context, record *domain.UserReceivedImage) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)`,
		r.columns.TableName,
		r.columns.ID,
		r.columns.UserID,
		r.columns.AvatarID,
		r.columns.ImageID,
		r.columns.ConversationID,
		r.columns.SentAt)
	err := r.db.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.AvatarID,
		record.ImageID,
		record.ConversationID,
		record.SentAt)
	if err != nil {
		r.Log.Error("failed to create received image record",
			"error", err,
			"user_id", record.UserID,
			"avatar_id", record.AvatarID,
			"image_id", record.ImageID)
		return fmt.Errorf("failed to create received image record: %w", err)
	}
	return nil
}
