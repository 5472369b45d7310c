package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/zidio-dev/inkpress/services/client/events"
)

var upgrader = websocket.Upgrader{
	// The shell is served from the same host; cross-origin pages never
	// reach this endpoint in normal operation.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
}

const (
	wsPingInterval = 30 * time.Second
	wsWriteWait    = 5 * time.Second
)

// handleEvents streams bus events to the shell over a websocket. Each
// connection gets its own subscription; a slow client drops events
// rather than blocking producers.
func (s *Server) handleEvents(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("failed to upgrade the websocket", slog.Any("error", err))
		return
	}
	defer ws.Close()

	queue := make(chan events.Event, 64)
	subID := s.bus.Subscribe(func(ev events.Event) {
		select {
		case queue <- ev:
		default:
		}
	})
	defer s.bus.Unsubscribe(subID)

	// Replay the recent buffer so a reconnecting shell catches up.
	for _, ev := range s.bus.Recent() {
		if err := ws.WriteJSON(ev); err != nil {
			return
		}
	}

	// Reader goroutine surfaces client disconnects; inbound payloads are
	// ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case ev := <-queue:
			if err := ws.WriteJSON(ev); err != nil {
				s.logger.Warn("failed to write event to websocket", slog.Any("error", err))
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(wsWriteWait)
			if err := ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
