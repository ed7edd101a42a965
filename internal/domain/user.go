package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID          `json:"id" db:"id"`
	Email              string             `json:"email" db:"email"`
	SubscriptionTier   Tier               `json:"subscription_tier" db:"subscription_tier"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status" db:"subscription_status"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
}

// SubscriptionStatus статус подписки
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Usage дневной расход квоты пользователя
type Usage struct {
	MessagesRemaining int64 `json:"messages_remaining"`
	ImagesRemaining   int64 `json:"images_remaining"`
}
