package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/adapters/secondary/storage/inmemory"
	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/logger"
	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAvatars struct {
	avatars map[string]*domain.Avatar
	gets    int
}

func (f *fakeAvatars) GetByID(_ context.Context, id string) (*domain.Avatar, error) {
	f.gets++
	a, ok := f.avatars[id]
	if !ok {
		return nil, domain.ErrAvatarNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAvatars) ListActive(_ context.Context, tiers []domain.Tier) ([]*domain.Avatar, error) {
	var out []*domain.Avatar
	for _, id := range []string{"avatar-isabella", "avatar-maya", "avatar-sophie", "avatar-old"} {
		a, ok := f.avatars[id]
		if !ok || !a.IsActive {
			continue
		}
		for _, t := range tiers {
			if a.Tier == t {
				cp := *a
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (f *fakeAvatars) Upsert(context.Context, *domain.Avatar) error { return nil }

type fakeUsers map[uuid.UUID]*domain.User

func (f fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f fakeUsers) Upsert(context.Context, *domain.User) error { return nil }

type fakeConversations struct {
	convs   map[uuid.UUID]*domain.Conversation
	created int
	txErr   error
}

func (f *fakeConversations) Create(_ context.Context, c *domain.Conversation) error {
	f.created++
	f.convs[c.ID] = c
	return nil
}

func (f *fakeConversations) GetByID(_ context.Context, id uuid.UUID) (*domain.Conversation, error) {
	c, ok := f.convs[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return c, nil
}

func (f *fakeConversations) GetByUserAndAvatar(_ context.Context, userID uuid.UUID, avatarID string) (*domain.Conversation, error) {
	for _, c := range f.convs {
		if c.UserID == userID && c.AvatarID == avatarID {
			return c, nil
		}
	}
	return nil, domain.ErrConversationNotFound
}

func (f *fakeConversations) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.ConversationSummary, error) {
	var out []*domain.ConversationSummary
	for _, c := range f.convs {
		if c.UserID == userID {
			out = append(out, &domain.ConversationSummary{Conversation: *c})
		}
	}
	return out, nil
}

func (f *fakeConversations) UpdateLastMessage(context.Context, uuid.UUID, string, time.Time) error {
	return nil
}

func (f *fakeConversations) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	if f.txErr != nil {
		return f.txErr
	}
	return fn(ctx, nil)
}

func (f *fakeConversations) DeleteTx(_ context.Context, _ persistence.Transaction, id uuid.UUID) error {
	if _, ok := f.convs[id]; !ok {
		return domain.ErrConversationNotFound
	}
	delete(f.convs, id)
	return nil
}

type fakeMessages struct {
	byConv        map[uuid.UUID][]*domain.ChatMessage
	limit, offset int
}

func (f *fakeMessages) Create(_ context.Context, m *domain.ChatMessage) error {
	f.byConv[m.ConversationID] = append(f.byConv[m.ConversationID], m)
	return nil
}

func (f *fakeMessages) ListByConversation(_ context.Context, id uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error) {
	f.limit, f.offset = limit, offset
	return f.byConv[id], nil
}

func (f *fakeMessages) Recent(_ context.Context, id uuid.UUID, _ int) ([]*domain.ChatMessage, error) {
	return f.byConv[id], nil
}

func (f *fakeMessages) DeleteByConversationTx(_ context.Context, _ persistence.Transaction, id uuid.UUID) error {
	delete(f.byConv, id)
	return nil
}

type fixture struct {
	svc      *Service
	avatars  *fakeAvatars
	convs    *fakeConversations
	messages *fakeMessages
	free     uuid.UUID
	premium  uuid.UUID
}

func newFixture() *fixture {
	free, premium := uuid.New(), uuid.New()
	avatars := &fakeAvatars{avatars: map[string]*domain.Avatar{
		"avatar-sophie":   {ID: "avatar-sophie", Name: "Sophie", Tier: domain.TierFree, IsActive: true, PersonalityPrompt: "secret"},
		"avatar-isabella": {ID: "avatar-isabella", Name: "Isabella", Tier: domain.TierStandard, IsActive: true},
		"avatar-maya":     {ID: "avatar-maya", Name: "Maya", Tier: domain.TierPremium, IsActive: true},
		"avatar-old":      {ID: "avatar-old", Name: "Old", Tier: domain.TierFree, IsActive: false},
	}}
	users := fakeUsers{
		free:    {ID: free, SubscriptionTier: domain.TierFree},
		premium: {ID: premium, SubscriptionTier: domain.TierPremium},
	}
	convs := &fakeConversations{convs: map[uuid.UUID]*domain.Conversation{}}
	messages := &fakeMessages{byConv: map[uuid.UUID][]*domain.ChatMessage{}}

	svc := New(avatars, users, convs, messages, inmemory.NewStore(), logger.NewNop())
	return &fixture{svc: svc, avatars: avatars, convs: convs, messages: messages, free: free, premium: premium}
}

func names(avatars []*domain.Avatar) []string {
	out := make([]string, 0, len(avatars))
	for _, a := range avatars {
		out = append(out, a.Name)
	}
	return out
}

func TestListAvatarsByTier(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	anon, err := f.svc.ListAvatars(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sophie"}, names(anon))
	assert.Empty(t, anon[0].PersonalityPrompt)

	unknown := uuid.New()
	stranger, err := f.svc.ListAvatars(ctx, &unknown)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sophie"}, names(stranger))

	all, err := f.svc.ListAvatars(ctx, &f.premium)
	require.NoError(t, err)
	assert.Equal(t, []string{"Isabella", "Maya", "Sophie"}, names(all))
}

func TestGetAvatar(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.GetAvatar(ctx, &f.free, "avatar-maya")
	assert.ErrorIs(t, err, domain.ErrAvatarAccessDenied)

	_, err = f.svc.GetAvatar(ctx, nil, "avatar-old")
	assert.ErrorIs(t, err, domain.ErrAvatarNotFound)

	avatar, err := f.svc.GetAvatar(ctx, &f.premium, "avatar-sophie")
	require.NoError(t, err)
	assert.Equal(t, "Sophie", avatar.Name)
	assert.Empty(t, avatar.PersonalityPrompt)
}

func TestLoadAvatarUsesCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.LoadAvatar(ctx, "avatar-sophie")
	require.NoError(t, err)
	second, err := f.svc.LoadAvatar(ctx, "avatar-sophie")
	require.NoError(t, err)

	assert.Equal(t, 1, f.avatars.gets)
	assert.Equal(t, "secret", second.PersonalityPrompt)
	assert.Equal(t, first.ID, second.ID)
}

func TestStartConversationReturnsExisting(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	conv, err := f.svc.StartConversation(ctx, f.free, "avatar-sophie")
	require.NoError(t, err)
	again, err := f.svc.StartConversation(ctx, f.free, "avatar-sophie")
	require.NoError(t, err)

	assert.Equal(t, conv.ID, again.ID)
	assert.Equal(t, 1, f.convs.created)
}

func TestStartConversationErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.StartConversation(ctx, f.free, "avatar-maya")
	assert.ErrorIs(t, err, domain.ErrAvatarAccessDenied)

	_, err = f.svc.StartConversation(ctx, f.free, "avatar-nobody")
	assert.ErrorIs(t, err, domain.ErrAvatarNotFound)

	_, err = f.svc.StartConversation(ctx, uuid.New(), "avatar-sophie")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestConversationOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	conv, err := f.svc.StartConversation(ctx, f.premium, "avatar-maya")
	require.NoError(t, err)

	_, err = f.svc.GetConversation(ctx, f.free, conv.ID)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	_, err = f.svc.ListMessages(ctx, f.free, conv.ID, 10, 0)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	assert.ErrorIs(t, f.svc.DeleteConversation(ctx, f.free, conv.ID), domain.ErrConversationNotFound)
	assert.Contains(t, f.convs.convs, conv.ID)
}

func TestListMessagesPaging(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	conv, err := f.svc.StartConversation(ctx, f.free, "avatar-sophie")
	require.NoError(t, err)

	_, err = f.svc.ListMessages(ctx, f.free, conv.ID, 0, -3)
	require.NoError(t, err)
	assert.Equal(t, DefaultMessagesLimit, f.messages.limit)
	assert.Equal(t, 0, f.messages.offset)

	_, err = f.svc.ListMessages(ctx, f.free, conv.ID, 5000, 20)
	require.NoError(t, err)
	assert.Equal(t, MaxMessagesLimit, f.messages.limit)
	assert.Equal(t, 20, f.messages.offset)
}

func TestDeleteConversation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	conv, err := f.svc.StartConversation(ctx, f.free, "avatar-sophie")
	require.NoError(t, err)
	require.NoError(t, f.messages.Create(ctx, &domain.ChatMessage{ID: uuid.New(), ConversationID: conv.ID, Role: domain.RoleUser, Content: "hi"}))

	require.NoError(t, f.svc.DeleteConversation(ctx, f.free, conv.ID))
	assert.NotContains(t, f.convs.convs, conv.ID)
	assert.NotContains(t, f.messages.byConv, conv.ID)
}

func TestDeleteConversationTxError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	conv, err := f.svc.StartConversation(ctx, f.free, "avatar-sophie")
	require.NoError(t, err)

	f.convs.txErr = errors.New("tx failed")
	assert.Error(t, f.svc.DeleteConversation(ctx, f.free, conv.ID))
}
