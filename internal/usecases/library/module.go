package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/repository"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/storage"
	"github.com/google/uuid"
)

// ErrStorageDisabled загрузка файлов без настроенного S3
var ErrStorageDisabled = errors.New("object storage is not configured")

// Service валидирует и сохраняет аватары и картинки библиотеки
type Service struct {
	AvatarRepo repository.IAvatarRepo
	ImageRepo  repository.IAvatarImageRepo
	Storage    storage.IObjectStorage // может быть nil
	Log        *slog.Logger
	Now        func() time.Time
}

func New(avatarRepo repository.IAvatarRepo, imageRepo repository.IAvatarImageRepo, objects storage.IObjectStorage, log *slog.Logger) *Service {
	return &Service{
		AvatarRepo: avatarRepo,
		ImageRepo:  imageRepo,
		Storage:    objects,
		Log:        log,
		Now:        time.Now,
	}
}

func (s *Service) ImportAvatar(ctx context.Context, avatar *domain.Avatar) error {
	avatar.ID = strings.TrimSpace(avatar.ID)
	if avatar.ID == "" || strings.TrimSpace(avatar.Name) == "" {
		return domain.WrapBusinessError(fmt.Errorf("avatar id and name are required"))
	}
	if avatar.Tier == "" {
		avatar.Tier = domain.TierFree
	}
	if !avatar.Tier.IsValid() {
		return domain.WrapBusinessError(fmt.Errorf("avatar %s: unknown tier %q", avatar.ID, avatar.Tier))
	}
	if avatar.CreatedAt.IsZero() {
		avatar.CreatedAt = s.Now().UTC()
	}

	if err := s.AvatarRepo.Upsert(ctx, avatar); err != nil {
		return fmt.Errorf("failed to import avatar: %w", err)
	}

	s.Log.Info("avatar imported",
		"avatar_id", avatar.ID,
		"tier", avatar.Tier)
	return nil
}

// ImportImage проверяет запись и делает upsert. id без значения выводится из avatar_id и file_path
func (s *Service) ImportImage(ctx context.Context, image *domain.AvatarImage) (*domain.AvatarImage, error) {
	if err := s.normalize(image); err != nil {
		return nil, domain.WrapBusinessError(err)
	}

	if _, err := s.AvatarRepo.GetByID(ctx, image.AvatarID); err != nil {
		if errors.Is(err, domain.ErrAvatarNotFound) {
			s.Log.Warn("image for unknown avatar",
				"avatar_id", image.AvatarID,
				"file_path", image.FilePath)
			return nil, domain.WrapBusinessError(err)
		}
		return nil, fmt.Errorf("failed to check avatar: %w", err)
	}

	if err := s.ImageRepo.Upsert(ctx, image); err != nil {
		return nil, fmt.Errorf("failed to import image: %w", err)
	}

	s.Log.Debug("image imported",
		"image_id", image.ID,
		"avatar_id", image.AvatarID,
		"category", image.Category)
	return image, nil
}

// UploadImage кладёт файл картинки в бакет по ключу {avatar}/{category}/{file}
func (s *Service) UploadImage(ctx context.Context, image *domain.AvatarImage, body io.Reader, size int64, contentType string) error {
	if s.Storage == nil {
		return ErrStorageDisabled
	}
	if err := s.normalize(image); err != nil {
		return domain.WrapBusinessError(err)
	}

	key := domain.ObjectKey(image.AvatarID, image.Category.String(), image.FileName())
	if err := s.Storage.Put(ctx, key, body, size, contentType); err != nil {
		return fmt.Errorf("failed to upload image %s: %w", key, err)
	}
	return nil
}

func (s *Service) normalize(image *domain.AvatarImage) error {
	image.AvatarID = strings.TrimSpace(image.AvatarID)
	image.FilePath = strings.TrimSpace(image.FilePath)
	image.Category = domain.ImageCategory(strings.ToLower(strings.TrimSpace(image.Category.String())))

	if image.AvatarID == "" {
		return fmt.Errorf("avatar_id is required")
	}
	if image.FilePath == "" {
		return fmt.Errorf("file_path is required")
	}
	if strings.Contains(image.FilePath, "..") {
		return fmt.Errorf("file_path %q must not contain ..", image.FilePath)
	}
	if !image.Category.IsValid() {
		return fmt.Errorf("unknown category %q", image.Category)
	}
	if image.Tags == nil {
		image.Tags = domain.ImageTags{}
	}
	// send_count ведёт только селектор
	image.SendCount = 0
	if image.ID == uuid.Nil {
		image.ID = domain.ImageID(image.AvatarID, image.FilePath)
	}
	if image.CreatedAt.IsZero() {
		image.CreatedAt = s.Now().UTC()
	}
	return nil
}
