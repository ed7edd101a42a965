package usecase

import (
	"context"
	"io"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
)

// ILibraryUseCase наполнение библиотеки аватаров (Kafka image_library, seed CLI)
type ILibraryUseCase interface {
	ImportAvatar(ctx context.Context, avatar *domain.Avatar) error
	ImportImage(ctx context.Context, image *domain.AvatarImage) (*domain.AvatarImage, error)
	UploadImage(ctx context.Context, image *domain.AvatarImage, body io.Reader, size int64, contentType string) error
}
