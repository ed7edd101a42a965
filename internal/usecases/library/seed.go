package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"path"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
)

// Manifest файл наполнения библиотеки: аватары и метаданные их картинок
type Manifest struct {
	Avatars []*domain.Avatar      `json:"avatars"`
	Images  []*domain.AvatarImage `json:"images"`
}

// SeedReport итог наполнения
type SeedReport struct {
	Avatars  int
	Images   int
	Uploaded int
	Skipped  int
}

// ReadManifest разбирает JSON манифест
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// Seed импортирует манифест. Если files не nil, файлы картинок берутся из него по file_path и
// загружаются в хранилище. Невалидные записи пропускаются, ошибки БД и хранилища прерывают импорт
func (s *Service) Seed(ctx context.Context, m *Manifest, files fs.FS) (*SeedReport, error) {
	report := &SeedReport{}

	for _, avatar := range m.Avatars {
		if err := s.ImportAvatar(ctx, avatar); err != nil {
			if domain.IsBusinessError(err) {
				s.Log.Warn("avatar skipped", "avatar_id", avatar.ID, "error", err)
				report.Skipped++
				continue
			}
			return report, err
		}
		report.Avatars++
	}

	for _, image := range m.Images {
		if _, err := s.ImportImage(ctx, image); err != nil {
			if domain.IsBusinessError(err) {
				s.Log.Warn("image skipped", "avatar_id", image.AvatarID, "file_path", image.FilePath, "error", err)
				report.Skipped++
				continue
			}
			return report, err
		}
		report.Images++

		if files == nil {
			continue
		}
		if err := s.uploadFile(ctx, files, image); err != nil {
			return report, err
		}
		report.Uploaded++
	}

	return report, nil
}

func (s *Service) uploadFile(ctx context.Context, files fs.FS, image *domain.AvatarImage) error {
	f, err := files.Open(image.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("image file %s not found", image.FilePath)
		}
		return fmt.Errorf("failed to open %s: %w", image.FilePath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", image.FilePath, err)
	}

	contentType := mime.TypeByExtension(path.Ext(image.FilePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return s.UploadImage(ctx, image, f, info.Size(), contentType)
}
