package chatController

import (
	"context"
	"sync"
	"time"

	"github.com/cybersmrt-tony/cnctd.ai/internal/domain"
	"github.com/gorilla/websocket"
)

// wsSink пишет кадры в соединение. gorilla допускает только одного писателя, отсюда mutex
type wsSink struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func (s *wsSink) WriteFrame(_ context.Context, frame domain.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(frame)
}
