package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"georelay/internal/app/relay"
	"georelay/internal/pkg/logx"
	"georelay/internal/pkg/randx"
)

// HandleWebSocket upgrades the request, assigns a connection identifier,
// registers the connection and serves it until it closes.
func HandleWebSocket(deps *AppDeps, upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Warn("Failed to upgrade connection to WebSocket", "error", err.Error())
			return
		}

		connID := randx.ConnectionID()
		// NewClient queues the session frame ahead of any broadcast.
		client := relay.NewClient(deps.Hub, conn, connID, deps.Router)

		if err := deps.Hub.Register(client); err != nil {
			logx.Warn("WebSocket connection dropped: hub is shutting down.", "conn_id", connID)
			conn.Close()
			return
		}

		deps.Router.Connect(connID)

		go client.WritePump()

		client.ReadPump()
	}
}
