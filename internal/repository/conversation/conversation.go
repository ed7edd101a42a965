package conversationRepo

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

type conversationColumns struct {
	TableName     string
	ID            string
	UserID        string
	AvatarID      string
	Title         string
	LastMessage   string
	LastMessageAt string
	CreatedAt     string
}

type Repository struct {
	db      persistence.Database
	Log     *slog.Logger
	columns conversationColumns
}

// New создаёт репозиторий диалогов
func New(db persistence.Database, log *slog.Logger) ports.IConversationRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: conversationColumns{
			TableName:     "conversations",
			ID:            "id",
			UserID:        "user_id",
			AvatarID:      "avatar_id",
			Title:         "title",
			LastMessage:   "last_message",
			LastMessageAt: "last_message_at",
			CreatedAt:     "created_at",
		},
	}
}

func (r *Repository) allColumns(prefix string) string {
	return fmt.Sprintf("%[1]s%[2]s, %[1]s%[3]s, %[1]s%[4]s, %[1]s%[5]s, %[1]s%[6]s, %[1]s%[7]s, %[1]s%[8]s",
		prefix,
		r.columns.ID,
		r.columns.UserID,
		r.columns.AvatarID,
		r.columns.Title,
		r.columns.LastMessage,
		r.columns.LastMessageAt,
		r.columns.CreatedAt)
}

func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.columns.TableName,
		r.allColumns(""))
	err := r.db.Exec(ctx, query,
		conv.ID,
		conv.UserID,
		conv.AvatarID,
		conv.Title,
		conv.LastMessage,
		conv.LastMessageAt,
		conv.CreatedAt)
	if err != nil {
		r.Log.Error("failed to create conversation",
			"error", err,
			"user_id", conv.UserID,
			"avatar_id", conv.AvatarID)
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	r.Log.Debug("conversation created",
		"conversation_id", conv.ID,
		"avatar_id", conv.AvatarID)
	return nil
}

func (r *Repository) getOne(ctx context.Context, where string, args ...interface{}) (*domain.Conversation, error) {
	var conv domain.Conversation
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`,
		r.allColumns(""),
		r.columns.TableName,
		where)
	if err := r.db.Get(ctx, &conv, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		r.Log.Error("failed to get conversation",
			"error", err,
			"where", where)
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return &conv, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	return r.getOne(ctx, r.columns.ID+" = $1", id)
}

// GetByUserAndAvatar последний диалог пользователя с аватаром
func (r *Repository) GetByUserAndAvatar(ctx context.Context, userID uuid.UUID, avatarID string) (*domain.Conversation, error) {
	where := fmt.Sprintf("%s = $1 AND %s = $2 ORDER BY %s DESC LIMIT 1",
		r.columns.UserID,
		r.columns.AvatarID,
		r.columns.CreatedAt)
	return r.getOne(ctx, where, userID, avatarID)
}

// ListByUser диалоги пользователя с именем и картинкой аватара, свежие первыми
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.ConversationSummary, error) {
	convs := []*domain.ConversationSummary{}
	query := fmt.Sprintf(`SELECT %s, a.name AS avatar_name, a.profile_image_url AS avatar_image FROM %s c JOIN avatars a ON a.id = c.%s WHERE c.%s = $1 ORDER BY COALESCE(c.%s, c.%s) DESC`,
		r.allColumns("c."),
		r.columns.TableName,
		r.columns.AvatarID,
		r.columns.UserID,
		r.columns.LastMessageAt,
		r.columns.CreatedAt)
	if err := r.db.Select(ctx, &convs, query, userID); err != nil {
		r.Log.Error("failed to list conversations",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

func (r *Repository) UpdateLastMessage(ctx context.Context, id uuid.UUID, lastMessage string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3`,
		r.columns.TableName,
		r.columns.LastMessage,
		r.columns.LastMessageAt,
		r.columns.ID)
	if err := r.db.Exec(ctx, query, lastMessage, at, id); err != nil {
		r.Log.Error("failed to update conversation last message",
			"error", err,
			"conversation_id", id)
		return fmt.Errorf("failed to update conversation last message: %w", err)
	}
	return nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	return r.db.WithTransaction(ctx, fn)
}

// DeleteTx удаляет диалог в транзакции, сообщения удаляются отдельно репозиторием сообщений
func (r *Repository) DeleteTx(ctx context.Context, tx persistence.Transaction, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.columns.TableName, r.columns.ID)
	affected, err := tx.ExecWithResult(ctx, query, id)
	if err != nil {
		r.Log.Error("failed to delete conversation",
			"error", err,
			"conversation_id", id)
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if affected == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}
