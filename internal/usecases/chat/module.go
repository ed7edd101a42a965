package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/metrics"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/service"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/usecase"
	"github.com/cybersmrt-tony/cnctd.ai/internal/usecases/photo"
	"github.com/google/uuid"
)

const lastMessageLen = 100

// Service обработка сообщения пользователя: квота, история, ответ аватара и фото
type Service struct {
	Catalog          usecase.ICatalogUseCase
	ConversationRepo repository.IConversationRepo
	MessageRepo      repository.IMessageRepo
	Quota            usecase.IQuotaUseCase
	Photo            usecase.IPhotoUseCase
	Generator        service.ITextGenerator
	Metrics          *metrics.Metrics
	Log              *slog.Logger
	Now              func() time.Time
	cfg              Config
}

func New(
	catalog usecase.ICatalogUseCase,
	conversationRepo repository.IConversationRepo,
	messageRepo repository.IMessageRepo,
	quota usecase.IQuotaUseCase,
	photos usecase.IPhotoUseCase,
	generator service.ITextGenerator,
	cfg Config,
	m *metrics.Metrics,
	log *slog.Logger,
) *Service {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	return &Service{
		Catalog:          catalog,
		ConversationRepo: conversationRepo,
		MessageRepo:      messageRepo,
		Quota:            quota,
		Photo:            photos,
		Generator:        generator,
		Metrics:          m,
		Log:              log,
		Now:              time.Now,
		cfg:              cfg,
	}
}

func (s *Service) Config() Config {
	return s.cfg
}

// HandleMessage обрабатывает одно сообщение целиком. Ошибка означает сбой хранилища,
// вызывающий отвечает клиенту кадром error
func (s *Service) HandleMessage(ctx context.Context, in domain.IncomingMessage, out domain.FrameSink) error {
	allowed, err := s.Quota.CheckMessageLimit(ctx, in.UserID)
	if err != nil {
		return fmt.Errorf("failed to check message limit: %w", err)
	}
	if !allowed {
		return s.write(ctx, out, domain.Frame{Type: domain.FrameRateLimit, Error: s.cfg.MessageLimitReply})
	}

	if _, err := s.saveMessage(ctx, in.ConversationID, domain.RoleUser, in.Text, nil); err != nil {
		return err
	}
	if err := s.Quota.IncrementMessageCount(ctx, in.UserID); err != nil {
		s.Log.Error("failed to increment message count",
			"error", err,
			"user_id", in.UserID)
	}

	avatar, err := s.Catalog.LoadAvatar(ctx, in.AvatarID)
	if err != nil {
		if errors.Is(err, domain.ErrAvatarNotFound) {
			return s.write(ctx, out, domain.Frame{Type: domain.FrameError, Error: "Avatar not found"})
		}
		return fmt.Errorf("failed to load avatar: %w", err)
	}

	intent := photo.Detect(in.Text)

	if err := s.write(ctx, out, domain.Frame{Type: domain.FrameTyping}); err != nil {
		return err
	}

	reply, generated := s.generate(ctx, avatar, in.ConversationID)

	var imageURL *string
	if generated && intent != nil {
		target := domain.PhotoTarget{AvatarID: in.AvatarID, UserID: in.UserID, ConversationID: in.ConversationID}
		result, err := s.Photo.Deliver(ctx, target, intent)
		if err != nil {
			return fmt.Errorf("failed to deliver photo: %w", err)
		}

		switch result.Outcome {
		case domain.PhotoOutcomeQuotaExhausted:
			return s.reply(ctx, out, in.ConversationID, s.cfg.ImageLimitReply, nil, false)
		case domain.PhotoOutcomeSelected:
			url := result.ImageURL()
			imageURL = &url
		}
	}

	return s.reply(ctx, out, in.ConversationID, reply, imageURL, true)
}

// generate ответ модели. false означает, что вместо ответа подставлена заглушка об ошибке
func (s *Service) generate(ctx context.Context, avatar *domain.Avatar, conversationID uuid.UUID) (string, bool) {
	recent, err := s.MessageRepo.Recent(ctx, conversationID, s.cfg.HistoryLimit)
	if err != nil {
		s.Log.Error("failed to load history",
			"error", err,
			"conversation_id", conversationID)
		return s.cfg.FailureReply, false
	}

	history := make([]domain.ChatTurn, 0, len(recent))
	for _, m := range recent {
		history = append(history, domain.ChatTurn{Role: m.Role, Content: m.Content})
	}

	reply, err := s.Generator.Generate(ctx, avatar, history)
	if err != nil {
		s.Log.Warn("reply generation failed",
			"error", err,
			"avatar_id", avatar.ID,
			"conversation_id", conversationID)
		return s.cfg.FailureReply, false
	}
	if reply == "" {
		return s.cfg.EmptyReply, true
	}
	return reply, true
}

// reply сохраняет ответ аватара и отправляет его клиенту
func (s *Service) reply(ctx context.Context, out domain.FrameSink, conversationID uuid.UUID, content string, imageURL *string, touch bool) error {
	msg, err := s.saveMessage(ctx, conversationID, domain.RoleAssistant, content, imageURL)
	if err != nil {
		return err
	}

	if err := s.write(ctx, out, domain.Frame{
		Type: domain.FrameMessage,
		Data: domain.MessagePayload{Role: domain.RoleAssistant, Content: content, ImageURL: imageURL},
	}); err != nil {
		return err
	}

	if touch {
		if err := s.ConversationRepo.UpdateLastMessage(ctx, conversationID, Truncate(content, lastMessageLen), msg.CreatedAt); err != nil {
			s.Log.Warn("failed to update last message",
				"error", err,
				"conversation_id", conversationID)
		}
	}
	return nil
}

func (s *Service) saveMessage(ctx context.Context, conversationID uuid.UUID, role domain.Role, content string, imageURL *string) (*domain.ChatMessage, error) {
	msg := &domain.ChatMessage{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		ImageURL:       imageURL,
		CreatedAt:      s.Now().UTC(),
	}
	if err := s.MessageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save %s message: %w", role, err)
	}
	if s.Metrics != nil {
		s.Metrics.ChatMessages.WithLabelValues(string(role)).Inc()
	}
	return msg, nil
}

func (s *Service) write(ctx context.Context, out domain.FrameSink, frame domain.Frame) error {
	if err := out.WriteFrame(ctx, frame); err != nil {
		return fmt.Errorf("failed to write %s frame: %w", frame.Type, err)
	}
	return nil
}

// Truncate первые n символов строки (по рунам)
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
