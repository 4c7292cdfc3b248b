/*
Package relay is the WebSocket side of the relay: it tracks open connections
and delivers named events to them.

This file defines the Hub. A single Run loop owns the connection map and
serves registrations, unregistrations and outbound deliveries. Only the
outbound queue is FIFO: deliveries reach each peer in the order they were
enqueued, so events produced by one handler arrive in the order they were
sent. Relative order across the three channels is not defined.
*/
package relay

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"georelay/internal/pkg/logx"
)

const (
	// outboundQueueSize bounds the number of deliveries waiting for the Run loop.
	outboundQueueSize = 1024

	// clientSendBuffer bounds the number of frames queued for one connection.
	clientSendBuffer = 256
)

// ErrHubStopped is returned by Register once Shutdown has been called.
var ErrHubStopped = errors.New("relay hub stopped")

// Message is the frame exchanged in both directions: {"type": ..., "payload": ...}.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// delivery is one encoded frame and its addressing.
type delivery struct {
	// connID is the sole recipient, or the excluded sender when broadcast is set.
	connID    string
	broadcast bool
	data      []byte
}

// Hub tracks connected clients and fans events out to them.
// It implements presence.Broadcaster.
type Hub struct {
	// clients is written only by the Run loop; mu lets other goroutines read its size.
	clients map[string]*Client
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	outbound   chan delivery

	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger zerolog.Logger
}

// NewHub constructs a Hub and starts its Run loop.
func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan delivery, outboundQueueSize),
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logx.Component("Hub"),
	}

	go h.run()

	return h
}

// run is the Hub's event loop. It exits on Shutdown, closing every client's send queue.
func (h *Hub) run() {
	defer close(h.done)

	h.logger.Info().Msg("Hub loop started.")

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if existing, ok := h.clients[client.id]; ok && existing != client {
				h.logger.Warn().Str("conn_id", client.id).Msg("Connection ID already registered. Replacing.")
				close(existing.send)
			}
			h.clients[client.id] = client
			total := len(h.clients)
			h.mu.Unlock()

			h.logger.Info().
				Str("conn_id", client.id).
				Int("total_connections", total).
				Msg("Connection registered.")

		case client := <-h.unregister:
			h.mu.Lock()
			current, ok := h.clients[client.id]
			if ok && current == client {
				delete(h.clients, client.id)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()

			if ok && current == client {
				h.logger.Info().
					Str("conn_id", client.id).
					Int("total_connections", total).
					Msg("Connection unregistered.")
			} else {
				h.logger.Debug().Str("conn_id", client.id).Msg("Ignoring unregister for unknown or stale connection.")
			}

		case d := <-h.outbound:
			h.deliver(d)

		case <-h.stopChan:
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()

			h.logger.Info().Msg("Hub loop stopped.")
			return
		}
	}
}

// deliver hands one frame to its recipients without blocking on any of them.
func (h *Hub) deliver(d delivery) {
	if !d.broadcast {
		client, ok := h.clients[d.connID]
		if !ok {
			h.logger.Debug().Str("conn_id", d.connID).Msg("Recipient no longer connected, dropping event.")
			return
		}
		h.offer(client, d.data)
		return
	}

	for id, client := range h.clients {
		if id == d.connID {
			continue
		}
		h.offer(client, d.data)
	}
}

// offer queues data on the client's send buffer, dropping it if the buffer is full.
func (h *Hub) offer(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.logger.Warn().
			Str("conn_id", client.id).
			Int("queue_len", len(client.send)).
			Msg("Client send buffer full, dropping event.")
	}
}

// Register adds a client. It blocks until the Run loop has accepted it, so
// any event sent afterwards can reach it.
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.stopChan:
		return ErrHubStopped
	}
}

// Unregister removes a client and closes its send queue. Unregistering a
// client that is no longer current is ignored.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stopChan:
	}
}

// SendTo delivers one event to a single connection.
func (h *Hub) SendTo(connID string, event string, payload any) {
	h.enqueue(connID, false, event, payload)
}

// SendToAllExcept delivers one event to every connection but connID.
func (h *Hub) SendToAllExcept(connID string, event string, payload any) {
	h.enqueue(connID, true, event, payload)
}

// enqueue encodes the frame once and hands it to the Run loop without blocking.
func (h *Hub) enqueue(connID string, broadcast bool, event string, payload any) {
	data, err := json.Marshal(Message{Type: event, Payload: payload})
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Error marshaling event.")
		return
	}

	select {
	case <-h.stopChan:
		return
	default:
	}

	select {
	case h.outbound <- delivery{connID: connID, broadcast: broadcast, data: data}:
	default:
		h.logger.Warn().Str("event", event).Msg("Outbound queue full, dropping event.")
	}
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Shutdown stops the Run loop and waits for it to close every send queue.
// It is safe to call more than once.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() {
		h.logger.Info().Msg("Shutting down hub...")
		close(h.stopChan)
	})
	<-h.done
}
