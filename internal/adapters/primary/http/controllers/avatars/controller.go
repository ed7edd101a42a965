package avatarsController

import (
	"log/slog"
	"net/http"

	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/response"
	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/middlewares"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/usecase"
	"github.com/gin-gonic/gin"
)

type Controller struct {
	Catalog usecase.ICatalogUseCase
	Log     *slog.Logger
}

func New(catalog usecase.ICatalogUseCase, log *slog.Logger) *Controller {
	return &Controller{
		Catalog: catalog,
		Log:     log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	avatars := router.Group("/api/avatars", middlewares.OptionalUser())
	{
		avatars.GET("", c.list)
		avatars.GET("/:id", c.get)
	}
}

// list активные аватары, доступные уровню пользователя (аноним = free)
func (c *Controller) list(ctx *gin.Context) {
	avatars, err := c.Catalog.ListAvatars(ctx.Request.Context(), middlewares.UserID(ctx))
	if err != nil {
		response.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"avatars": avatars})
}

func (c *Controller) get(ctx *gin.Context) {
	avatar, err := c.Catalog.GetAvatar(ctx.Request.Context(), middlewares.UserID(ctx), ctx.Param("id"))
	if err != nil {
		response.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"avatar": avatar})
}
