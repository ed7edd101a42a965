package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/metrics"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
	"github.com/google/uuid"
)

// Service дневные лимиты сообщений и картинок по уровню подписки.
// День считается по UTC
type Service struct {
	UserRepo repository.IUserRepo
	Usage    repository.IUsageRepo
	Metrics  *metrics.Metrics
	Log      *slog.Logger
	Now      func() time.Time
}

func New(userRepo repository.IUserRepo, usage repository.IUsageRepo, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		UserRepo: userRepo,
		Usage:    usage,
		Metrics:  m,
		Log:      log,
		Now:      time.Now,
	}
}

func (s *Service) CheckMessageLimit(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.check(ctx, userID, domain.QuotaMessages)
}

func (s *Service) IncrementMessageCount(ctx context.Context, userID uuid.UUID) error {
	return s.increment(ctx, userID, domain.QuotaMessages)
}

func (s *Service) CheckImageLimit(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.check(ctx, userID, domain.QuotaImages)
}

func (s *Service) IncrementImageCount(ctx context.Context, userID uuid.UUID) error {
	return s.increment(ctx, userID, domain.QuotaImages)
}

// Remaining остаток на сегодня. Для неизвестного пользователя нули
func (s *Service) Remaining(ctx context.Context, userID uuid.UUID) (*domain.Usage, error) {
	limits, err := s.limits(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return &domain.Usage{}, nil
	}
	if err != nil {
		return nil, err
	}

	day := s.Now()
	messages, err := s.Usage.Get(ctx, userID, domain.QuotaMessages, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get message usage: %w", err)
	}
	images, err := s.Usage.Get(ctx, userID, domain.QuotaImages, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get image usage: %w", err)
	}

	return &domain.Usage{
		MessagesRemaining: max(0, limits.MessagesPerDay-messages),
		ImagesRemaining:   max(0, limits.ImagesPerDay-images),
	}, nil
}

func (s *Service) limits(ctx context.Context, userID uuid.UUID) (domain.RateLimits, error) {
	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.RateLimits{}, err
	}
	return user.SubscriptionTier.Limits(), nil
}

func (s *Service) check(ctx context.Context, userID uuid.UUID, kind domain.QuotaKind) (bool, error) {
	limits, err := s.limits(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.Log.Warn("quota check for unknown user", "user_id", userID, "kind", kind)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load user limits: %w", err)
	}

	used, err := s.Usage.Get(ctx, userID, kind, s.Now())
	if err != nil {
		return false, fmt.Errorf("failed to get %s usage: %w", kind, err)
	}

	if used >= limits.Limit(kind) {
		if s.Metrics != nil {
			s.Metrics.QuotaRejections.WithLabelValues(string(kind)).Inc()
		}
		return false, nil
	}
	return true, nil
}

func (s *Service) increment(ctx context.Context, userID uuid.UUID, kind domain.QuotaKind) error {
	if _, err := s.Usage.Increment(ctx, userID, kind, s.Now()); err != nil {
		return fmt.Errorf("failed to increment %s usage: %w", kind, err)
	}
	return nil
}
