package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/logger"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/metrics"
)

type App struct {
	Name    string
	Cfg     *Config
	Log     *slog.Logger
	Metrics *metrics.Metrics
}

func New(name string, cfg *Config) *App {
	return &App{
		Name:    name,
		Cfg:     cfg,
		Log:     logger.New(name, cfg.Log),
		Metrics: metrics.New(),
	}
}

// Run поднимает зависимости и держит сервисы до отмены ctx
func (a *App) Run(ctx context.Context) error {
	a.Log.Info("starting application", "app", a.Name)

	deps, err := a.initDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to init dependencies: %w", err)
	}

	return a.runServices(ctx, deps)
}
