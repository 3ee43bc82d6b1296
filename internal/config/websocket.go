package config

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader     websocket.Upgrader
	WriteTimeout time.Duration
	PongTimeout  time.Duration
}

// NewWebSocket accepts upgrades from the listed origins only, or from any
// origin when none are listed. Requests without an Origin header do not come
// from a browser page and are always accepted.
func NewWebSocket(origins ...string) *WebSocket {
	return &WebSocket{
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(origins, origin)
			},
		},
		WriteTimeout: 10 * time.Second,
		PongTimeout:  60 * time.Second,
	}
}

// PingPeriod must stay below PongTimeout.
func (ws *WebSocket) PingPeriod() time.Duration {
	return ws.PongTimeout * 9 / 10
}
