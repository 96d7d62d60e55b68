// File: /controllers/live_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dariulone/dariulonePosts/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// writeTimeout bounds a single frame write so one stalled connection cannot
// hold a pump goroutine forever.
const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 512,
	// The channel is broadcast-only and carries no payload, any origin may
	// subscribe
	CheckOrigin: func(r *http.Request) bool { return true },
}

type LiveController struct {
	broadcaster *services.Broadcaster
}

func NewLiveController(broadcaster *services.Broadcaster) *LiveController {
	return &LiveController{broadcaster: broadcaster}
}

// Stream upgrades the request to a WebSocket and registers the connection
// with the broadcaster. The client receives the update signal on every state
// change until it disconnects or falls too far behind, and re-registers by
// reconnecting; the server owns no resume logic.
func (lc *LiveController) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		fmt.Printf("WebSocket upgrade failed: %v\n", err)
		return
	}

	sub := lc.broadcaster.Subscribe()
	defer lc.broadcaster.Unsubscribe(sub)
	defer conn.Close()

	// Reader goroutine: we never expect client frames, but reading is the
	// only way to notice a closed connection promptly.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case signal, ok := <-sub.Messages():
			if !ok {
				// Evicted by the broadcaster
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, signal); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
