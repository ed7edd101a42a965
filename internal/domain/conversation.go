package domain

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	AvatarID      string     `json:"avatar_id" db:"avatar_id"`
	Title         *string    `json:"title,omitempty" db:"title"`
	LastMessage   *string    `json:"last_message,omitempty" db:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty" db:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// ConversationSummary диалог для списка с данными аватара
type ConversationSummary struct {
	Conversation
	AvatarName  string `json:"avatar_name" db:"avatar_name"`
	AvatarImage string `json:"avatar_image" db:"avatar_image"`
}

// Role автор сообщения
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage сохранённое сообщение диалога
type ChatMessage struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ConversationID uuid.UUID `json:"conversation_id" db:"conversation_id"`
	Role           Role      `json:"role" db:"role"`
	Content        string    `json:"content" db:"content"`
	ImageURL       *string   `json:"image_url,omitempty" db:"image_url"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ChatTurn реплика истории для генератора ответов
type ChatTurn struct {
	Role    Role
	Content string
}
