package domain

import (
	"context"

	"github.com/google/uuid"
)

// FrameType тип кадра WebSocket-протокола чата
type FrameType string

const (
	FrameMessage   FrameType = "message"
	FrameError     FrameType = "error"
	FrameRateLimit FrameType = "rate_limit"
	FrameTyping    FrameType = "typing"
)

// Frame исходящий кадр
type Frame struct {
	Type  FrameType   `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// MessagePayload данные кадра message
type MessagePayload struct {
	Role     Role    `json:"role"`
	Content  string  `json:"content"`
	ImageURL *string `json:"imageUrl"`
}

// InboundFrame входящий кадр от клиента
type InboundFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// IncomingMessage сообщение пользователя, принятое сессией
type IncomingMessage struct {
	UserID         uuid.UUID
	ConversationID uuid.UUID
	AvatarID       string
	Text           string
}

// FrameSink получатель исходящих кадров (соединение клиента)
type FrameSink interface {
	WriteFrame(ctx context.Context, frame Frame) error
}
