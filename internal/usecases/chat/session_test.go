package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/cybersmrt-tony/cnctd.ai/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderedChat struct {
	mu       sync.Mutex
	texts    []string
	inflight int
	overlap  bool
	err      error
}

func (c *orderedChat) HandleMessage(_ context.Context, in domain.IncomingMessage, _ domain.FrameSink) error {
	c.mu.Lock()
	c.inflight++
	if c.inflight > 1 {
		c.overlap = true
	}
	c.mu.Unlock()

	time.Sleep(time.Millisecond)

	c.mu.Lock()
	c.texts = append(c.texts, in.Text)
	c.inflight--
	c.mu.Unlock()
	return c.err
}

func runSession(t *testing.T, chat *orderedChat, sink *recordingSink) (*Session, func()) {
	t.Helper()
	s := NewSession(chat, sink, uuid.New(), uuid.New(), "avatar-sophie", 4, logger.NewNop())
	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()
	return s, func() {
		s.Close()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("session did not stop")
		}
	}
}

func TestSessionProcessesInOrder(t *testing.T) {
	chat := &orderedChat{}
	s, stop := runSession(t, chat, &recordingSink{})

	for _, text := range []string{"one", "two", "three", "four", "five", "six"} {
		require.NoError(t, s.Submit(context.Background(), text))
	}
	stop()

	assert.Equal(t, []string{"one", "two", "three", "four", "five", "six"}, chat.texts)
	assert.False(t, chat.overlap)
}

func TestSessionHandleFrame(t *testing.T) {
	chat := &orderedChat{}
	sink := &recordingSink{}
	s, stop := runSession(t, chat, sink)
	ctx := context.Background()

	require.NoError(t, s.HandleFrame(ctx, []byte(`{"type":"message","message":"  hi there "}`)))
	require.NoError(t, s.HandleFrame(ctx, []byte(`{"type":"ping"}`)))
	require.NoError(t, s.HandleFrame(ctx, []byte(`{broken`)))
	require.NoError(t, s.HandleFrame(ctx, []byte(`{"type":"message","message":"   "}`)))
	stop()

	assert.Equal(t, []string{"hi there"}, chat.texts)
	frames := sink.snapshot()
	require.Len(t, frames, 2)
	assert.Equal(t, domain.FrameError, frames[0].Type)
	assert.Equal(t, "Failed to process message", frames[0].Error)
	assert.Equal(t, "Message is empty", frames[1].Error)
}

func TestSessionReportsFailures(t *testing.T) {
	chat := &orderedChat{err: errors.New("db down")}
	sink := &recordingSink{}
	s, stop := runSession(t, chat, sink)

	require.NoError(t, s.Submit(context.Background(), "hello"))
	stop()

	frames := sink.snapshot()
	require.Len(t, frames, 1)
	assert.Equal(t, domain.FrameError, frames[0].Type)
}

func TestSessionSubmitAfterClose(t *testing.T) {
	s, stop := runSession(t, &orderedChat{}, &recordingSink{})
	stop()

	assert.ErrorIs(t, s.Submit(context.Background(), "late"), ErrSessionClosed)
	s.Close()
}

func TestSessionCloseDrainsQueue(t *testing.T) {
	chat := &orderedChat{}
	s := NewSession(chat, &recordingSink{}, uuid.New(), uuid.New(), "avatar-sophie", 4, logger.NewNop())

	require.NoError(t, s.Submit(context.Background(), "one"))
	require.NoError(t, s.Submit(context.Background(), "two"))
	s.Close()

	s.Run(context.Background())
	assert.Equal(t, []string{"one", "two"}, chat.texts)
}

func TestSessionCancelDropsQueue(t *testing.T) {
	chat := &orderedChat{}
	s := NewSession(chat, &recordingSink{}, uuid.New(), uuid.New(), "avatar-sophie", 4, logger.NewNop())

	require.NoError(t, s.Submit(context.Background(), "one"))
	require.NoError(t, s.Submit(context.Background(), "two"))
	s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Run(ctx)
	assert.Empty(t, chat.texts)
}
