package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	kafkaPorts "github.com/cybersmrt-tony/cnctd.ai/internal/ports/kafka"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/usecase"
)

// ImageLibraryHandler принимает записи библиотеки картинок из топика image_library
type ImageLibraryHandler struct {
	Library usecase.ILibraryUseCase
	Log     *slog.Logger
}

func NewImageLibraryHandler(library usecase.ILibraryUseCase, log *slog.Logger) kafkaPorts.MessageHandler {
	return &ImageLibraryHandler{
		Library: library,
		Log:     log,
	}
}

// HandleMessage одно сообщение = одна AvatarImage в JSON
func (h *ImageLibraryHandler) HandleMessage(ctx context.Context, key string, value []byte) error {
	var image domain.AvatarImage
	if err := json.Unmarshal(value, &image); err != nil {
		return domain.WrapBusinessError(fmt.Errorf("failed to unmarshal image_library message: %w", err))
	}

	saved, err := h.Library.ImportImage(ctx, &image)
	if err != nil {
		return fmt.Errorf("failed to import image [key=%s]: %w", key, err)
	}

	h.Log.Info("library image upserted",
		"image_id", saved.ID,
		"avatar_id", saved.AvatarID,
		"category", saved.Category,
		"file_path", saved.FilePath)
	return nil
}
