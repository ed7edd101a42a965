package service

import (
	"context"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
)

// IEventPublisher публикует доменные события
type IEventPublisher interface {
	PublishImageSent(ctx context.Context, event domain.ImageSentEvent) error
}
