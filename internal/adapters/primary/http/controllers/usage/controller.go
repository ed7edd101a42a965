package usageController

import (
	"log/slog"
	"net/http"

	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/response"
	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/middlewares"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/usecase"
	"github.com/gin-gonic/gin"
)

type Controller struct {
	Quota usecase.IQuotaUseCase
	Log   *slog.Logger
}

func New(quota usecase.IQuotaUseCase, log *slog.Logger) *Controller {
	return &Controller{Quota: quota, Log: log}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/usage", middlewares.RequireUser(), c.remaining)
}

// remaining остаток дневных лимитов пользователя
func (c *Controller) remaining(ctx *gin.Context) {
	usage, err := c.Quota.Remaining(ctx.Request.Context(), middlewares.MustUserID(ctx))
	if err != nil {
		response.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"usage": usage})
}
