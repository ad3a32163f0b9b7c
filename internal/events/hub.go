package events

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that connected clients implement
type ClientInterface interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Hub fans domain events out to connected clients. The fund is a single
// instance, so there is one flat client set. Safe for concurrent use.
type Hub struct {
	clients map[string]ClientInterface
	mu      sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]ClientInterface),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID()] = client

	log.Debug().
		Str("client_id", client.ID()).
		Int("clients", len(h.clients)).
		Msg("event client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID()]; !ok {
		return
	}
	delete(h.clients, client.ID())

	log.Debug().
		Str("client_id", client.ID()).
		Int("clients", len(h.clients)).
		Msg("event client unregistered")
}

// Broadcast sends an event to every connected client. Clients that fail to
// accept the message are dropped.
func (h *Hub) Broadcast(event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("failed to serialize event")
		return
	}

	h.mu.RLock()
	clients := make([]ClientInterface, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.Send(data); err != nil {
			log.Debug().
				Str("client_id", client.ID()).
				Str("type", event.Type).
				Msg("dropping slow event client")
			h.Unregister(client)
			_ = client.Close()
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
