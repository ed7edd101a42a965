package app

import (
	"context"
	"fmt"

	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/storage/pg"
	avatarRepo "github.com/cybersmrt-tony/cnctd.ai/internal/repository/avatar"
	avatarImageRepo "github.com/cybersmrt-tony/cnctd.ai/internal/repository/avatar_image"
	"github.com/cybersmrt-tony/cnctd.ai/internal/usecases/library"
)

// NewLibrary сервис библиотеки для офлайн наполнения (cmd/seed). close закрывает подключение к БД
func (a *App) NewLibrary(ctx context.Context, withStorage bool) (svc *library.Service, closeFn func(), err error) {
	db, err := a.initPostgres(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init postgres: %w", err)
	}
	closeFn = func() {
		if err := db.Close(); err != nil {
			a.Log.Error("failed to close database", "error", err)
		}
	}

	persistenceLayer := pg.NewDB(db)
	svc = library.New(
		avatarRepo.New(persistenceLayer, a.Log),
		avatarImageRepo.New(persistenceLayer, a.Log),
		nil,
		a.Log,
	)

	if withStorage {
		objects, err := a.initObjectStorage()
		if err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("failed to init s3: %w", err)
		}
		if objects == nil {
			closeFn()
			return nil, nil, fmt.Errorf("s3 is not configured")
		}
		svc.Storage = objects
	}

	return svc, closeFn, nil
}
