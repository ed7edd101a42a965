package chatController

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/controllers/response"
	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/primary/http/middlewares"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/metrics"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/usecase"
	"github.com/cybersmrt-tony/cnctd.ai/internal/usecases/chat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout   = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
)

type Controller struct {
	Chat          usecase.IChatUseCase
	Catalog       usecase.ICatalogUseCase
	Metrics       *metrics.Metrics
	Log           *slog.Logger
	sessionBuffer int
	upgrader      websocket.Upgrader
}

// New allowedOrigins пустой = разрешён любой Origin
func New(
	chatUseCase usecase.IChatUseCase,
	catalog usecase.ICatalogUseCase,
	allowedOrigins []string,
	sessionBuffer int,
	m *metrics.Metrics,
	log *slog.Logger,
) *Controller {
	c := &Controller{
		Chat:          chatUseCase,
		Catalog:       catalog,
		Metrics:       m,
		Log:           log,
		sessionBuffer: sessionBuffer,
	}
	c.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/chat/:conversationId/ws", middlewares.RequireUser(), c.connect)
}

// connect поднимает WebSocket и держит актор сессии до закрытия соединения
func (c *Controller) connect(ctx *gin.Context) {
	userID := middlewares.MustUserID(ctx)

	convID, err := uuid.Parse(ctx.Param("conversationId"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	conv, err := c.Catalog.GetConversation(ctx.Request.Context(), userID, convID)
	if err != nil {
		response.Error(ctx, c.Log, err)
		return
	}

	avatarID := ctx.Query("avatarId")
	if avatarID == "" {
		avatarID = conv.AvatarID
	}
	if avatarID != conv.AvatarID {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "avatarId does not match conversation"})
		return
	}

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// upgrader уже ответил клиенту
		c.Log.Warn("websocket upgrade failed",
			"error", err,
			"conversation_id", convID)
		return
	}
	defer conn.Close()

	c.serve(ctx.Request.Context(), conn, userID, convID, avatarID)
}

func (c *Controller) serve(parent context.Context, conn *websocket.Conn, userID, convID uuid.UUID, avatarID string) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	log := c.Log.With("user_id", userID, "conversation_id", convID)
	if c.Metrics != nil {
		c.Metrics.WSSessions.Inc()
		defer c.Metrics.WSSessions.Dec()
	}

	sink := &wsSink{conn: conn, writeTimeout: writeTimeout}
	session := chat.NewSession(c.Chat, sink, userID, convID, avatarID, c.sessionBuffer, c.Log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		session.Run(ctx)
	}()
	go c.keepAlive(ctx, conn)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	log.Info("chat session opened", "avatar_id", avatarID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn("websocket read failed", "error", err)
			}
			break
		}
		if err := session.HandleFrame(ctx, data); err != nil {
			break
		}
	}

	session.Close()
	cancel()
	<-done

	log.Info("chat session closed")
}

func (c *Controller) keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		_, ok := set[u.Scheme+"://"+u.Host]
		return ok
	}
}
