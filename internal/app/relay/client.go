package relay

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"georelay/internal/pkg/errs"
	"georelay/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 4096
)

// EventSession is sent once to a freshly accepted connection with its identifier.
const EventSession = "session"

// SessionPayload is the EventSession payload.
type SessionPayload struct {
	UserID string `json:"userId"`
}

// EventHandler consumes what a connection receives. presence.Router satisfies it.
type EventHandler interface {
	Dispatch(connID string, eventType string, payload json.RawMessage) error
	Disconnect(connID string)
}

// inboundMessage is the client frame before its payload is decoded.
type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client is one accepted WebSocket connection.
type Client struct {
	// id is the relay-assigned connection identifier.
	id string

	hub     *Hub
	conn    *websocket.Conn
	handler EventHandler

	// send queues encoded frames for WritePump. Only the Hub closes it.
	send chan []byte

	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection. The EventSession
// frame is already queued, so it precedes anything the Hub delivers once the
// client is registered.
func NewClient(hub *Hub, conn *websocket.Conn, connID string, handler EventHandler) *Client {
	c := &Client{
		id:      connID,
		hub:     hub,
		conn:    conn,
		handler: handler,
		send:    make(chan []byte, clientSendBuffer),
		logger:  logx.Logger().With().Str("conn_id", connID).Logger(),
	}

	c.queueSession()

	return c
}

// queueSession puts the EventSession frame on the still-empty send queue.
func (c *Client) queueSession() {
	data, err := json.Marshal(Message{Type: EventSession, Payload: SessionPayload{UserID: c.id}})
	if err != nil {
		c.logger.Error().Err(err).Msg("Error marshaling session frame.")
		return
	}

	c.send <- data
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.id
}

// ReadPump reads frames until the connection fails or closes, dispatching each
// to the handler. On exit it runs the disconnect path, unregisters the client
// and closes the connection.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn().Err(err).Msg("Connection closed unexpectedly")
			}
			break
		}

		c.processInboundMessage(frame)
	}
}

// cleanupOnDisconnect announces the departure, then releases the connection.
func (c *Client) cleanupOnDisconnect() {
	c.handler.Disconnect(c.id)
	c.hub.Unregister(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Connection close error")
	}
}

// processInboundMessage decodes one frame and hands it to the handler.
// Bad frames are logged and skipped; the connection stays open.
func (c *Client) processInboundMessage(frame []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(frame, &msg); err != nil {
		c.logger.Warn().
			Err(err).
			Int("code", errs.ErrInvalidJSONFormat).
			Int("frame_len", len(frame)).
			Msg("Client sent invalid JSON")
		return
	}

	if err := c.handler.Dispatch(c.id, msg.Type, msg.Payload); err != nil {
		c.logger.Warn().
			Err(err).
			Int("code", errs.CodeOf(err)).
			Str("event", msg.Type).
			Msg("Client event rejected")
	}
}

// WritePump writes queued frames and periodic pings until the send queue is
// closed or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedMessage(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage writes one frame, or a close frame once the queue is closed.
// It returns false when WritePump should stop.
func (c *Client) writeQueuedMessage(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Warn().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a heartbeat ping. It returns false when WritePump should stop.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Debug().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
