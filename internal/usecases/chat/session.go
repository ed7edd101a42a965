package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/usecase"
	"github.com/google/uuid"
)

const failureFrameText = "Failed to process message"

var ErrSessionClosed = errors.New("chat session closed")

// Session актор одного соединения: сообщения обрабатываются строго по одному в порядке поступления
type Session struct {
	chat   usecase.IChatUseCase
	sink   domain.FrameSink
	base   domain.IncomingMessage
	inbox  chan string
	log    *slog.Logger
	mu     sync.RWMutex
	closed bool
}

func NewSession(chat usecase.IChatUseCase, sink domain.FrameSink, userID, conversationID uuid.UUID, avatarID string, buffer int, log *slog.Logger) *Session {
	if buffer <= 0 {
		buffer = 1
	}
	return &Session{
		chat: chat,
		sink: sink,
		base: domain.IncomingMessage{
			UserID:         userID,
			ConversationID: conversationID,
			AvatarID:       avatarID,
		},
		inbox: make(chan string, buffer),
		log: log.With(
			"user_id", userID,
			"conversation_id", conversationID,
			"avatar_id", avatarID),
	}
}

// Run разбирает inbox до Close или отмены контекста. Отмена контекста важнее очереди
func (s *Session) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case text, ok := <-s.inbox:
			if !ok {
				return
			}
			s.process(ctx, text)
		}
	}
}

func (s *Session) process(ctx context.Context, text string) {
	in := s.base
	in.Text = text

	if err := s.chat.HandleMessage(ctx, in, s.sink); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.log.Error("failed to handle chat message", "error", err)
		s.sendError(ctx, failureFrameText)
	}
}

// HandleFrame разбирает сырой кадр клиента. Кадры кроме message игнорируются
func (s *Session) HandleFrame(ctx context.Context, raw []byte) error {
	var frame domain.InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.log.Debug("malformed frame", "error", err)
		s.sendError(ctx, failureFrameText)
		return nil
	}
	if frame.Type != string(domain.FrameMessage) {
		return nil
	}

	text := strings.TrimSpace(frame.Message)
	if text == "" {
		s.sendError(ctx, "Message is empty")
		return nil
	}
	return s.Submit(ctx, text)
}

// Submit ставит сообщение в очередь сессии, блокируется при полном inbox
func (s *Session) Submit(ctx context.Context, text string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSessionClosed
	}

	select {
	case s.inbox <- text:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close прекращает приём сообщений. Уже принятые Run дообработает, пока не отменён его контекст
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.inbox)
	}
}

func (s *Session) sendError(ctx context.Context, text string) {
	if err := s.sink.WriteFrame(ctx, domain.Frame{Type: domain.FrameError, Error: text}); err != nil {
		s.log.Debug("failed to write error frame", "error", err)
	}
}
