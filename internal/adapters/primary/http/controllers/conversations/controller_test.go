package conversationsController

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	convs         map[uuid.UUID]*domain.Conversation
	startErr      error
	limit, offset int
	deleted       []uuid.UUID
}

func (f *fakeCatalog) ListAvatars(context.Context, *uuid.UUID) ([]*domain.Avatar, error) {
	return nil, nil
}

func (f *fakeCatalog) GetAvatar(context.Context, *uuid.UUID, string) (*domain.Avatar, error) {
	return nil, nil
}

func (f *fakeCatalog) LoadAvatar(context.Context, string) (*domain.Avatar, error) { return nil, nil }

func (f *fakeCatalog) StartConversation(_ context.Context, userID uuid.UUID, avatarID string) (*domain.Conversation, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	conv := &domain.Conversation{ID: uuid.New(), UserID: userID, AvatarID: avatarID}
	f.convs[conv.ID] = conv
	return conv, nil
}

func (f *fakeCatalog) ListConversations(_ context.Context, userID uuid.UUID) ([]*domain.ConversationSummary, error) {
	out := []*domain.ConversationSummary{}
	for _, c := range f.convs {
		if c.UserID == userID {
			out = append(out, &domain.ConversationSummary{Conversation: *c, AvatarName: "Sophie"})
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetConversation(_ context.Context, userID, id uuid.UUID) (*domain.Conversation, error) {
	c, ok := f.convs[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrConversationNotFound
	}
	return c, nil
}

func (f *fakeCatalog) ListMessages(ctx context.Context, userID, id uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error) {
	if _, err := f.GetConversation(ctx, userID, id); err != nil {
		return nil, err
	}
	f.limit, f.offset = limit, offset
	return []*domain.ChatMessage{{ID: uuid.New(), ConversationID: id, Role: domain.RoleUser, Content: "hi"}}, nil
}

func (f *fakeCatalog) DeleteConversation(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := f.GetConversation(ctx, userID, id); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	delete(f.convs, id)
	return nil
}

func do(f *fakeCatalog, method, path string, userID *uuid.UUID, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(f, logger.NewNop()).RegisterRoutes(r)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != nil {
		req.Header.Set("X-User-ID", userID.String())
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{convs: map[uuid.UUID]*domain.Conversation{}}
}

func TestStart(t *testing.T) {
	f := newCatalog()
	user := uuid.New()

	w := do(f, http.MethodPost, "/api/conversations/start", &user, `{"avatarId":"avatar-sophie"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Conversation domain.Conversation `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "avatar-sophie", resp.Conversation.AvatarID)
	assert.Equal(t, user, resp.Conversation.UserID)
}

func TestStartErrors(t *testing.T) {
	user := uuid.New()

	assert.Equal(t, http.StatusUnauthorized, do(newCatalog(), http.MethodPost, "/api/conversations/start", nil, `{"avatarId":"a"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(newCatalog(), http.MethodPost, "/api/conversations/start", &user, `{}`).Code)

	denied := newCatalog()
	denied.startErr = domain.ErrAvatarAccessDenied
	assert.Equal(t, http.StatusForbidden, do(denied, http.MethodPost, "/api/conversations/start", &user, `{"avatarId":"avatar-maya"}`).Code)

	missing := newCatalog()
	missing.startErr = domain.ErrAvatarNotFound
	assert.Equal(t, http.StatusNotFound, do(missing, http.MethodPost, "/api/conversations/start", &user, `{"avatarId":"x"}`).Code)

	broken := newCatalog()
	broken.startErr = errors.New("db down")
	assert.Equal(t, http.StatusInternalServerError, do(broken, http.MethodPost, "/api/conversations/start", &user, `{"avatarId":"x"}`).Code)
}

func TestGetAndList(t *testing.T) {
	f := newCatalog()
	user, stranger := uuid.New(), uuid.New()
	conv := &domain.Conversation{ID: uuid.New(), UserID: user, AvatarID: "avatar-sophie"}
	f.convs[conv.ID] = conv

	assert.Equal(t, http.StatusOK, do(f, http.MethodGet, "/api/conversations/"+conv.ID.String(), &user, "").Code)
	assert.Equal(t, http.StatusNotFound, do(f, http.MethodGet, "/api/conversations/"+conv.ID.String(), &stranger, "").Code)
	assert.Equal(t, http.StatusNotFound, do(f, http.MethodGet, "/api/conversations/not-a-uuid", &user, "").Code)

	w := do(f, http.MethodGet, "/api/conversations", &user, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"avatar_name":"Sophie"`)
}

func TestMessages(t *testing.T) {
	f := newCatalog()
	user := uuid.New()
	conv := &domain.Conversation{ID: uuid.New(), UserID: user}
	f.convs[conv.ID] = conv

	w := do(f, http.MethodGet, "/api/conversations/"+conv.ID.String()+"/messages?limit=20&offset=40", &user, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, f.limit)
	assert.Equal(t, 40, f.offset)
	assert.Contains(t, w.Body.String(), `"messages"`)

	do(f, http.MethodGet, "/api/conversations/"+conv.ID.String()+"/messages", &user, "")
	assert.Equal(t, 50, f.limit)
	assert.Equal(t, 0, f.offset)
}

func TestDelete(t *testing.T) {
	f := newCatalog()
	user, stranger := uuid.New(), uuid.New()
	conv := &domain.Conversation{ID: uuid.New(), UserID: user}
	f.convs[conv.ID] = conv

	assert.Equal(t, http.StatusNotFound, do(f, http.MethodDelete, "/api/conversations/"+conv.ID.String(), &stranger, "").Code)

	w := do(f, http.MethodDelete, "/api/conversations/"+conv.ID.String(), &user, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, []uuid.UUID{conv.ID}, f.deleted)
}
