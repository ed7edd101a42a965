package alerter

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/service"
	"github.com/gin-gonic/gin"
)

// Controller webhook для внешних алертов (деплой, мониторинг), пересылает их в алертер
type Controller struct {
	AlerterService service.IAlerterService
	Log            *slog.Logger
}

func New(alerterService service.IAlerterService, log *slog.Logger) *Controller {
	return &Controller{
		AlerterService: alerterService,
		Log:            log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/webhooks/alert", c.handleGenericAlert)
}

// GenericAlertPayload алерт в свободной форме
type GenericAlertPayload struct {
	Message string `json:"message" binding:"required"`
	Source  string `json:"source"`
}

func (c *Controller) handleGenericAlert(ctx *gin.Context) {
	var payload GenericAlertPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		c.Log.Warn("failed to bind generic alert request", "error", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	message := payload.Message
	if payload.Source != "" {
		message = fmt.Sprintf("🔔 Alert source: %s\n\n%s", payload.Source, payload.Message)
	}

	if err := c.AlerterService.SendAlert(ctx.Request.Context(), message); err != nil {
		c.Log.Warn("failed to send alert",
			"error", err,
			"source", payload.Source,
		)
		// 200, чтобы отправитель не повторял запрос
		ctx.JSON(http.StatusOK, gin.H{"ok": false, "error": "failed to send alert"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
