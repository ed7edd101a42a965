package conversationsController

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/response"
	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/middlewares"
	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
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
	conversations := router.Group("/api/conversations", middlewares.RequireUser())
	{
		conversations.POST("/start", c.start)
		conversations.GET("", c.list)
		conversations.GET("/:id", c.get)
		conversations.GET("/:id/messages", c.messages)
		conversations.DELETE("/:id", c.delete)
	}
}

// StartRequest запрос на начало диалога
type StartRequest struct {
	AvatarID string `json:"avatarId" binding:"required"`
}

func (c *Controller) start(ctx *gin.Context) {
	var req StartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "avatarId is required"})
		return
	}

	conv, err := c.Catalog.StartConversation(ctx.Request.Context(), middlewares.MustUserID(ctx), req.AvatarID)
	if err != nil {
		response.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"conversation": conv})
}

func (c *Controller) list(ctx *gin.Context) {
	convs, err := c.Catalog.ListConversations(ctx.Request.Context(), middlewares.MustUserID(ctx))
	if err != nil {
		response.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func (c *Controller) get(ctx *gin.Context) {
	id, ok := conversationID(ctx)
	if !ok {
		return
	}

	conv, err := c.Catalog.GetConversation(ctx.Request.Context(), middlewares.MustUserID(ctx), id)
	if err != nil {
		response.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"conversation": conv})
}

// messages страница истории: ?limit=50&offset=0
func (c *Controller) messages(ctx *gin.Context) {
	id, ok := conversationID(ctx)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	msgs, err := c.Catalog.ListMessages(ctx.Request.Context(), middlewares.MustUserID(ctx), id, limit, offset)
	if err != nil {
		response.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (c *Controller) delete(ctx *gin.Context) {
	id, ok := conversationID(ctx)
	if !ok {
		return
	}

	if err := c.Catalog.DeleteConversation(ctx.Request.Context(), middlewares.MustUserID(ctx), id); err != nil {
		response.Error(ctx, c.Log, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// conversationID невалидный id отвечает 404, как и несуществующий
func conversationID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": domain.ErrConversationNotFound.Error()})
		return uuid.Nil, false
	}
	return id, true
}
