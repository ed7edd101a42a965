package photo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/metrics"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/service"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/usecase"
)

// Service доставка фото: детектор, проверка квоты и селектор
type Service struct {
	Selector *Selector
	Quota    usecase.IQuotaUseCase
	Events   service.IEventPublisher
	Metrics  *metrics.Metrics
	Log      *slog.Logger
}

func New(
	selector *Selector,
	quota usecase.IQuotaUseCase,
	events service.IEventPublisher,
	m *metrics.Metrics,
	log *slog.Logger,
) *Service {
	return &Service{
		Selector: selector,
		Quota:    quota,
		Events:   events,
		Metrics:  m,
		Log:      log,
	}
}

// Resolve определяет запрос фото по тексту сообщения и выполняет его
func (s *Service) Resolve(ctx context.Context, target domain.PhotoTarget, text string) (*domain.PhotoResult, error) {
	return s.Deliver(ctx, target, Detect(text))
}

// Deliver выполняет уже определённый запрос фото.
// Исчерпанная квота и пустая категория это исходы, а не ошибки
func (s *Service) Deliver(ctx context.Context, target domain.PhotoTarget, intent *domain.PhotoIntent) (*domain.PhotoResult, error) {
	if intent == nil || !intent.ShouldSendImage {
		return &domain.PhotoResult{Outcome: domain.PhotoOutcomeNoRequest}, nil
	}

	allowed, err := s.Quota.CheckImageLimit(ctx, target.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check image limit: %w", err)
	}
	if !allowed {
		s.observe(domain.PhotoOutcomeQuotaExhausted, "")
		s.Log.Info("image quota exhausted",
			"user_id", target.UserID,
			"avatar_id", target.AvatarID)
		return &domain.PhotoResult{Outcome: domain.PhotoOutcomeQuotaExhausted, Intent: intent}, nil
	}

	sel, err := s.Selector.Select(ctx, target, intent.Category, intent.Tags)
	if err != nil {
		return nil, err
	}
	if !sel.Found() {
		s.observe(domain.PhotoOutcomeNoImage, sel.Pool)
		return &domain.PhotoResult{Outcome: domain.PhotoOutcomeNoImage, Intent: intent, Pool: sel.Pool}, nil
	}

	if err := s.Quota.IncrementImageCount(ctx, target.UserID); err != nil {
		// картинка уже выбрана и учтена в send_count
		s.Log.Error("failed to increment image count",
			"error", err,
			"user_id", target.UserID,
			"image_id", sel.Image.ID)
	}

	s.observe(domain.PhotoOutcomeSelected, sel.Pool)
	if s.Metrics != nil {
		s.Metrics.ImagesSent.WithLabelValues(target.AvatarID, sel.Image.Category.String()).Inc()
	}
	s.publish(ctx, target, sel)

	return &domain.PhotoResult{
		Outcome: domain.PhotoOutcomeSelected,
		Intent:  intent,
		Image:   sel.Image,
		Pool:    sel.Pool,
	}, nil
}

func (s *Service) observe(outcome domain.PhotoOutcome, pool domain.SelectionPool) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.PhotoOutcomes.WithLabelValues(string(outcome), string(pool)).Inc()
}

// publish отправляет событие image_sent, ошибки только логируются
func (s *Service) publish(ctx context.Context, target domain.PhotoTarget, sel *domain.Selection) {
	if s.Events == nil {
		return
	}
	event := domain.NewImageSentEvent(target, sel, time.Now().UTC())
	if err := s.Events.PublishImageSent(ctx, event); err != nil {
		s.Log.Warn("failed to publish image_sent event",
			"error", err,
			"image_id", event.ImageID)
	}
}
