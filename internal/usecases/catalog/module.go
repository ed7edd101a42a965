package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/cache"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/persistence"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
	"github.com/google/uuid"
)

const (
	avatarCacheTTL = 10 * time.Minute

	DefaultMessagesLimit = 50
	MaxMessagesLimit     = 200
)

// Service каталог аватаров и диалоги пользователя
type Service struct {
	AvatarRepo       repository.IAvatarRepo
	UserRepo         repository.IUserRepo
	ConversationRepo repository.IConversationRepo
	MessageRepo      repository.IMessageRepo
	Cache            cache.Cache
	Log              *slog.Logger
	Now              func() time.Time
}

func New(
	avatarRepo repository.IAvatarRepo,
	userRepo repository.IUserRepo,
	conversationRepo repository.IConversationRepo,
	messageRepo repository.IMessageRepo,
	avatarCache cache.Cache,
	log *slog.Logger,
) *Service {
	return &Service{
		AvatarRepo:       avatarRepo,
		UserRepo:         userRepo,
		ConversationRepo: conversationRepo,
		MessageRepo:      messageRepo,
		Cache:            avatarCache,
		Log:              log,
		Now:              time.Now,
	}
}

// tiersUpTo уровни, доступные зрителю с уровнем tier
func tiersUpTo(tier domain.Tier) []domain.Tier {
	all := []domain.Tier{domain.TierFree, domain.TierStandard, domain.TierPremium}
	visible := make([]domain.Tier, 0, len(all))
	for _, t := range all {
		if tier.CanAccess(t) {
			visible = append(visible, t)
		}
	}
	return visible
}

// viewerTier уровень зрителя. Анонимный или неизвестный пользователь видит каталог как free
func (s *Service) viewerTier(ctx context.Context, userID *uuid.UUID) (domain.Tier, error) {
	if userID == nil {
		return domain.TierFree, nil
	}
	user, err := s.UserRepo.GetByID(ctx, *userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.TierFree, nil
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	return user.SubscriptionTier, nil
}

func (s *Service) ListAvatars(ctx context.Context, userID *uuid.UUID) ([]*domain.Avatar, error) {
	tier, err := s.viewerTier(ctx, userID)
	if err != nil {
		return nil, err
	}

	avatars, err := s.AvatarRepo.ListActive(ctx, tiersUpTo(tier))
	if err != nil {
		return nil, fmt.Errorf("failed to list avatars: %w", err)
	}

	// промпты наружу не отдаём
	for _, a := range avatars {
		a.PersonalityPrompt = ""
		a.PhysicalDescription = ""
	}
	return avatars, nil
}

func (s *Service) GetAvatar(ctx context.Context, userID *uuid.UUID, avatarID string) (*domain.Avatar, error) {
	tier, err := s.viewerTier(ctx, userID)
	if err != nil {
		return nil, err
	}

	avatar, err := s.LoadAvatar(ctx, avatarID)
	if err != nil {
		return nil, err
	}
	if !tier.CanAccess(avatar.Tier) {
		return nil, domain.ErrAvatarAccessDenied
	}

	public := *avatar
	public.PersonalityPrompt = ""
	return &public, nil
}

// LoadAvatar активный аватар по id. Кэш не обязателен, его ошибки не мешают чтению из БД
func (s *Service) LoadAvatar(ctx context.Context, avatarID string) (*domain.Avatar, error) {
	key := "avatar:" + avatarID

	if s.Cache != nil {
		raw, err := s.Cache.Get(ctx, key)
		switch {
		case err == nil:
			var avatar domain.Avatar
			if jsonErr := json.Unmarshal([]byte(raw), &avatar); jsonErr == nil {
				return &avatar, nil
			}
			s.Log.Warn("broken avatar cache entry", "avatar_id", avatarID)
		case !errors.Is(err, cache.ErrCacheMiss):
			s.Log.Warn("avatar cache read failed",
				"error", err,
				"avatar_id", avatarID)
		}
	}

	avatar, err := s.AvatarRepo.GetByID(ctx, avatarID)
	if err != nil {
		return nil, err
	}
	if !avatar.IsActive {
		return nil, domain.ErrAvatarNotFound
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(avatar); err == nil {
			if err := s.Cache.Set(ctx, key, string(raw), avatarCacheTTL); err != nil {
				s.Log.Warn("avatar cache write failed",
					"error", err,
					"avatar_id", avatarID)
			}
		}
	}
	return avatar, nil
}

// StartConversation возвращает существующий диалог с аватаром или создаёт новый
func (s *Service) StartConversation(ctx context.Context, userID uuid.UUID, avatarID string) (*domain.Conversation, error) {
	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	avatar, err := s.LoadAvatar(ctx, avatarID)
	if err != nil {
		return nil, err
	}
	if !user.SubscriptionTier.CanAccess(avatar.Tier) {
		return nil, domain.ErrAvatarAccessDenied
	}

	existing, err := s.ConversationRepo.GetByUserAndAvatar(ctx, userID, avatarID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrConversationNotFound) {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}

	conv := &domain.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		AvatarID:  avatarID,
		CreatedAt: s.Now().UTC(),
	}
	if err := s.ConversationRepo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	s.Log.Info("conversation started",
		"conversation_id", conv.ID,
		"user_id", userID,
		"avatar_id", avatarID)
	return conv, nil
}

func (s *Service) ListConversations(ctx context.Context, userID uuid.UUID) ([]*domain.ConversationSummary, error) {
	return s.ConversationRepo.ListByUser(ctx, userID)
}

// GetConversation чужой диалог неотличим от несуществующего
func (s *Service) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.ConversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, domain.ErrConversationNotFound
	}
	return conv, nil
}

func (s *Service) ListMessages(ctx context.Context, userID, conversationID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error) {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultMessagesLimit
	}
	if limit > MaxMessagesLimit {
		limit = MaxMessagesLimit
	}
	if offset < 0 {
		offset = 0
	}

	return s.MessageRepo.ListByConversation(ctx, conversationID, limit, offset)
}

// DeleteConversation удаляет сообщения и сам диалог одной транзакцией
func (s *Service) DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return err
	}

	err := s.ConversationRepo.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		if err := s.MessageRepo.DeleteByConversationTx(ctx, tx, conversationID); err != nil {
			return err
		}
		return s.ConversationRepo.DeleteTx(ctx, tx, conversationID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	s.Log.Info("conversation deleted",
		"conversation_id", conversationID,
		"user_id", userID)
	return nil
}
