// Package events fans marketplace events out to websocket subscribers.
package events

import (
	"encoding/json" // Event encoding
	"sync"          // Subscriber set locking
	"time"          // Clock and durations

	"github.com/sirupsen/logrus" // Logging library
)

// Event types published by the marketplace services.
const (
	ListingCreated     = "listing.created"
	ListingSold        = "listing.sold" // Sent only to the seller
	TransactionCreated = "transaction.created"
	AuctionStatus      = "auction.status"
)

// Event is the JSON frame written to subscribers.
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

// Hub tracks connected subscribers per username.
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[*Client]struct{}
	count int
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{users: make(map[string]map[*Client]struct{})}
}

// Register adds the client under its username.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	conns, ok := h.users[client.username]
	if !ok {
		conns = make(map[*Client]struct{})
		h.users[client.username] = conns
	}
	conns[client] = struct{}{}
	h.count++
	open := len(conns)
	h.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"username":    client.username, // Subscriber
		"connections": open,            // Open sockets for this user
	}).Debug("Subscriber connected")
}

// Unregister removes the client and closes its send channel. Repeated calls are ignored.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	conns := h.users[client.username]
	if _, ok := conns[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.users, client.username)
	}
	h.count--
	close(client.send)
	h.mu.Unlock()

	logrus.WithField("username", client.username).Debug("Subscriber disconnected")
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Connected reports whether username has at least one open subscription.
func (h *Hub) Connected(username string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[username]) > 0
}

// Publish sends an event to every subscriber. Clients whose buffer is full miss it.
func (h *Hub) Publish(eventType string, data any) {
	if h == nil {
		return
	}
	payload, ok := encode(eventType, data)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.users {
		deliver(conns, payload)
	}
}

// PublishTo sends an event to the subscriptions of one user only.
func (h *Hub) PublishTo(username, eventType string, data any) {
	if h == nil {
		return
	}
	payload, ok := encode(eventType, data)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	deliver(h.users[username], payload)
}

func encode(eventType string, data any) ([]byte, bool) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, At: time.Now().UTC()})
	if err != nil {
		logrus.WithError(err).WithField("type", eventType).Warn("Failed to encode event")
		return nil, false
	}
	return payload, true
}

func deliver(conns map[*Client]struct{}, payload []byte) {
	for client := range conns {
		select {
		case client.send <- payload:
		default:
			logrus.WithField("username", client.username).Debug("Subscriber buffer full, event dropped")
		}
	}
}
