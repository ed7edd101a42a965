package domain

import (
	"encoding/json"
	"time"
)

// ImageSentEvent событие об отправке картинки (event-sourcing, уходит в Kafka)
type ImageSentEvent struct {
	Event          string        `json:"event"`
	ImageID        string        `json:"image_id"`
	AvatarID       string        `json:"avatar_id"`
	UserID         string        `json:"user_id"`
	ConversationID string        `json:"conversation_id"`
	Category       ImageCategory `json:"category"`
	Pool           SelectionPool `json:"pool"`
	SentAt         time.Time     `json:"sent_at"`
}

// NewImageSentEvent собирает событие по результату выбора
func NewImageSentEvent(target PhotoTarget, sel *Selection, sentAt time.Time) ImageSentEvent {
	return ImageSentEvent{
		Event:          "image_sent",
		ImageID:        sel.Image.ID.String(),
		AvatarID:       target.AvatarID,
		UserID:         target.UserID.String(),
		ConversationID: target.ConversationID.String(),
		Category:       sel.Image.Category,
		Pool:           sel.Pool,
		SentAt:         sentAt,
	}
}

// Marshal сериализует событие
func (e ImageSentEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
