package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/storage"
	"github.com/gin-gonic/gin"
)

// Error отвечает статусом по типу ошибки. Неизвестные ошибки логируются и отдаются как 500
func Error(c *gin.Context, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrAvatarAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Upgrade required to access this avatar"})
	case errors.Is(err, domain.ErrAvatarNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Avatar not found"})
	case errors.Is(err, domain.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, domain.ErrImageNotFound), errors.Is(err, storage.ErrObjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
	case domain.IsBusinessError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"route", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
