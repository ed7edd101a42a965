package imagesController

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/response"
	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/storage"
	"github.com/gin-gonic/gin"
)

const cacheControl = "public, max-age=31536000"

type Controller struct {
	Storage storage.IObjectStorage // nil, если S3 не настроен
	Log     *slog.Logger
}

func New(objects storage.IObjectStorage, log *slog.Logger) *Controller {
	return &Controller{
		Storage: objects,
		Log:     log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/images/:avatarId/:category/:filename", c.serve)
}

// serve отдаёт картинку из бакета по ключу {avatarId}/{category}/{filename}
func (c *Controller) serve(ctx *gin.Context) {
	if c.Storage == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not configured"})
		return
	}

	avatarID, category, filename := ctx.Param("avatarId"), ctx.Param("category"), ctx.Param("filename")
	for _, part := range []string{avatarID, category, filename} {
		if part == "" || part == "." || strings.Contains(part, "..") {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
	}

	key := domain.ObjectKey(avatarID, category, filename)
	obj, err := c.Storage.Open(ctx.Request.Context(), key)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			err = fmt.Errorf("failed to fetch image %s: %w", key, err)
		}
		response.Error(ctx, c.Log, err)
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx.DataFromReader(http.StatusOK, obj.Size, contentType, obj.Body, map[string]string{
		"Cache-Control": cacheControl,
	})
}
