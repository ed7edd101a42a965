package messageRepo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/persistence"
	ports "github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
	"github.com/google/uuid"
)

const messageColumns = "id, conversation_id, role, content, image_url, created_at"

type Repository struct {
	db  persistence.Persistence
	Log *slog.Logger
}

func New(db persistence.Persistence, log *slog.Logger) ports.IMessageRepo {
	return &Repository{db: db, Log: log}
}

func (r *Repository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	query := `INSERT INTO messages (` + messageColumns + `) VALUES (:id, :conversation_id, :role, :content, :image_url, :created_at)`
	if err := r.db.NamedExec(ctx, query, msg); err != nil {
		r.Log.Error("failed to create message",
			"error", err,
			"conversation_id", msg.ConversationID,
			"role", msg.Role)
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *Repository) ListByConversation(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error) {
	msgs := []*domain.ChatMessage{}
	query := `SELECT ` + messageColumns + ` FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	if err := r.db.Select(ctx, &msgs, query, conversationID, limit, offset); err != nil {
		r.Log.Error("failed to list messages",
			"error", err,
			"conversation_id", conversationID)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// Recent последние limit сообщений, от старых к новым
func (r *Repository) Recent(ctx context.Context, conversationID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	msgs := []*domain.ChatMessage{}
	query := `SELECT ` + messageColumns + ` FROM (SELECT ` + messageColumns + ` FROM messages WHERE conversation_id = $1 ORDER BY created_at DESC LIMIT $2) recent ORDER BY created_at ASC`
	if err := r.db.Select(ctx, &msgs, query, conversationID, limit); err != nil {
		r.Log.Error("failed to load recent messages",
			"error", err,
			"conversation_id", conversationID)
		return nil, fmt.Errorf("failed to load recent messages: %w", err)
	}
	return msgs, nil
}

func (r *Repository) DeleteByConversationTx(ctx context.Context, tx persistence.Transaction, conversationID uuid.UUID) error {
	if err := tx.Exec(ctx, `DELETE FROM messages WHERE conversation_id = $1`, conversationID); err != nil {
		r.Log.Error("failed to delete messages",
			"error", err,
			"conversation_id", conversationID)
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}
