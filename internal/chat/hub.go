// internal/chat/hub.go

package chat

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub maintains active websocket connections and channel
// subscriptions, and implements Dispatcher for the service layer
type Hub struct {
	// One connection per user; a new connection replaces the old one
	clients    map[string]*Client
	clientsMux sync.RWMutex

	// channel -> set of subscribed user ids
	subscriptions map[string]map[string]bool
	subsMux       sync.RWMutex

	register   chan *Client
	unregister chan *Client

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:       make(map[string]*Client),
		subscriptions: make(map[string]map[string]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (h *Hub) Run() {
	defer h.cleanup()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	// Replace an old connection for the same user
	if old, exists := h.clients[client.userID]; exists {
		old.Close()
	}

	h.clients[client.userID] = client
	wsConnections.Set(float64(len(h.clients)))

	log.Printf("User %s connected. Total clients: %d", client.userID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if current, exists := h.clients[client.userID]; exists && current == client {
		client.Close()
		delete(h.clients, client.userID)
		h.dropSubscriptions(client.userID)
		wsConnections.Set(float64(len(h.clients)))

		log.Printf("User %s disconnected. Total clients: %d", client.userID, len(h.clients))
	}
}

// Subscribe adds a user to a channel. Membership is the caller's
// responsibility; the hub only routes.
func (h *Hub) Subscribe(userID, channel string) {
	h.subsMux.Lock()
	defer h.subsMux.Unlock()

	if h.subscriptions[channel] == nil {
		h.subscriptions[channel] = make(map[string]bool)
	}
	h.subscriptions[channel][userID] = true
}

func (h *Hub) Unsubscribe(userID, channel string) {
	h.subsMux.Lock()
	defer h.subsMux.Unlock()

	if subs, ok := h.subscriptions[channel]; ok {
		delete(subs, userID)
		if len(subs) == 0 {
			delete(h.subscriptions, channel)
		}
	}
}

func (h *Hub) dropSubscriptions(userID string) {
	h.subsMux.Lock()
	defer h.subsMux.Unlock()

	for channel, subs := range h.subscriptions {
		delete(subs, userID)
		if len(subs) == 0 {
			delete(h.subscriptions, channel)
		}
	}
}

// Trigger sends an event to every client subscribed to the channel
func (h *Hub) Trigger(channel, event string, payload interface{}) error {
	data, err := json.Marshal(Event{
		Channel:   channel,
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		return err
	}

	h.subsMux.RLock()
	userIDs := make([]string, 0, len(h.subscriptions[channel]))
	for userID := range h.subscriptions[channel] {
		userIDs = append(userIDs, userID)
	}
	h.subsMux.RUnlock()

	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	for _, userID := range userIDs {
		client, exists := h.clients[userID]
		if !exists {
			continue
		}

		select {
		case client.send <- data:
		default:
			// Slow consumer; drop the connection rather than block.
			// The unregister send must not outlive a stopped hub.
			go func(c *Client) {
				select {
				case h.unregister <- c:
				case <-h.ctx.Done():
				}
			}(client)
		}
	}

	return nil
}

// IsOnline reports whether a user has a live connection
func (h *Hub) IsOnline(userID string) bool {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	_, online := h.clients[userID]
	return online
}

func (h *Hub) cleanup() {
	h.clientsMux.Lock()
	for _, client := range h.clients {
		client.Close()
	}
	h.clients = make(map[string]*Client)
	h.clientsMux.Unlock()
}
