package alerter

import (
	"context"
	"log/slog"

	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/alerter"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/service"
)

// Service реализует IAlerterService. Без настроенного клиента алерты только пишутся в лог
type Service struct {
	client *alerter.Client
	log    *slog.Logger
}

func New(client *alerter.Client, log *slog.Logger) service.IAlerterService {
	return &Service{
		client: client,
		log:    log,
	}
}

func (s *Service) SendAlert(ctx context.Context, message string) error {
	if s.client == nil {
		s.log.Warn("alert (alerter disabled)", "message", message)
		return nil
	}
	return s.client.SendAlert(ctx, message)
}
