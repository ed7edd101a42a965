package chat

import (
	"context"
	"sync"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/persistence"
	"github.com/google/uuid"
)

type fakeCatalog struct {
	avatars map[string]*domain.Avatar
}

func (f *fakeCatalog) ListAvatars(context.Context, *uuid.UUID) ([]*domain.Avatar, error) {
	return nil, nil
}

func (f *fakeCatalog) GetAvatar(ctx context.Context, _ *uuid.UUID, id string) (*domain.Avatar, error) {
	return f.LoadAvatar(ctx, id)
}

func (f *fakeCatalog) LoadAvatar(_ context.Context, id string) (*domain.Avatar, error) {
	a, ok := f.avatars[id]
	if !ok {
		return nil, domain.ErrAvatarNotFound
	}
	return a, nil
}

func (f *fakeCatalog) StartConversation(context.Context, uuid.UUID, string) (*domain.Conversation, error) {
	return nil, nil
}

func (f *fakeCatalog) ListConversations(context.Context, uuid.UUID) ([]*domain.ConversationSummary, error) {
	return nil, nil
}

func (f *fakeCatalog) GetConversation(context.Context, uuid.UUID, uuid.UUID) (*domain.Conversation, error) {
	return nil, nil
}

func (f *fakeCatalog) ListMessages(context.Context, uuid.UUID, uuid.UUID, int, int) ([]*domain.ChatMessage, error) {
	return nil, nil
}

func (f *fakeCatalog) DeleteConversation(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type fakeConversations struct {
	lastMessage *string
}

func (f *fakeConversations) Create(context.Context, *domain.Conversation) error { return nil }

func (f *fakeConversations) GetByID(context.Context, uuid.UUID) (*domain.Conversation, error) {
	return nil, domain.ErrConversationNotFound
}

func (f *fakeConversations) GetByUserAndAvatar(context.Context, uuid.UUID, string) (*domain.Conversation, error) {
	return nil, domain.ErrConversationNotFound
}

func (f *fakeConversations) ListByUser(context.Context, uuid.UUID) ([]*domain.ConversationSummary, error) {
	return nil, nil
}

func (f *fakeConversations) UpdateLastMessage(_ context.Context, _ uuid.UUID, msg string, _ time.Time) error {
	f.lastMessage = &msg
	return nil
}

func (f *fakeConversations) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	return fn(ctx, nil)
}

func (f *fakeConversations) DeleteTx(context.Context, persistence.Transaction, uuid.UUID) error {
	return nil
}

type fakeMessages struct {
	mu        sync.Mutex
	messages  []*domain.ChatMessage
	createErr error
}

func (f *fakeMessages) Create(_ context.Context, m *domain.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeMessages) ListByConversation(context.Context, uuid.UUID, int, int) ([]*domain.ChatMessage, error) {
	return f.messages, nil
}

func (f *fakeMessages) Recent(_ context.Context, _ uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) <= limit {
		return f.messages, nil
	}
	return f.messages[len(f.messages)-limit:], nil
}

func (f *fakeMessages) DeleteByConversationTx(context.Context, persistence.Transaction, uuid.UUID) error {
	return nil
}

type fakeQuota struct {
	messagesAllowed bool
	checkErr        error
	messageIncs     int
}

func (f *fakeQuota) CheckMessageLimit(context.Context, uuid.UUID) (bool, error) {
	return f.messagesAllowed, f.checkErr
}

func (f *fakeQuota) IncrementMessageCount(context.Context, uuid.UUID) error {
	f.messageIncs++
	return nil
}

func (f *fakeQuota) CheckImageLimit(context.Context, uuid.UUID) (bool, error) { return true, nil }
func (f *fakeQuota) IncrementImageCount(context.Context, uuid.UUID) error     { return nil }

func (f *fakeQuota) Remaining(context.Context, uuid.UUID) (*domain.Usage, error) {
	return &domain.Usage{}, nil
}

type fakePhoto struct {
	result *domain.PhotoResult
	err    error
	calls  int
	intent *domain.PhotoIntent
}

func (f *fakePhoto) Resolve(ctx context.Context, target domain.PhotoTarget, _ string) (*domain.PhotoResult, error) {
	return f.Deliver(ctx, target, nil)
}

func (f *fakePhoto) Deliver(_ context.Context, _ domain.PhotoTarget, intent *domain.PhotoIntent) (*domain.PhotoResult, error) {
	f.calls++
	f.intent = intent
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeGenerator struct {
	reply   string
	err     error
	history []domain.ChatTurn
}

func (f *fakeGenerator) Generate(_ context.Context, _ *domain.Avatar, history []domain.ChatTurn) (string, error) {
	f.history = history
	return f.reply, f.err
}

type recordingSink struct {
	mu     sync.Mutex
	frames []domain.Frame
	err    error
}

func (r *recordingSink) WriteFrame(_ context.Context, f domain.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.frames = append(r.frames, f)
	return nil
}

func (r *recordingSink) snapshot() []domain.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Frame(nil), r.frames...)
}

func (r *recordingSink) types() []domain.FrameType {
	out := []domain.FrameType{}
	for _, f := range r.snapshot() {
		out = append(out, f.Type)
	}
	return out
}
