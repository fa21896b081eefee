// Package notifications provides real-time delivery of interaction and
// chat events over WebSockets.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/BarishY/Astroverse/internal/middleware"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max topic subscriptions per connection
	maxTopicsPerClient = 32
	// Max total connections
	maxTotalConns = 10000
)

// Topic names. Clients subscribe to the targets they have on screen
// and receive every interaction snapshot for them.
func CollectionTopic(collectionID uint) string {
	return fmt.Sprintf("collection:%d", collectionID)
}

func PostTopic(postID string) string {
	return "post:" + postID
}

func ChatTopic(conversationKey string) string {
	return "chat:" + conversationKey
}

func UserTopic(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// Hub is a websocket hub that maps topic -> subscribed Clients.
type Hub struct {
	mu         sync.RWMutex
	topics     map[string]map[*Client]struct{}
	totalConns int
	shutdown   chan struct{}
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		topics:   make(map[string]map[*Client]struct{}),
		shutdown: make(chan struct{}),
	}
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "interaction hub" }

// Register creates a Client for the connection. Every client starts
// subscribed to its own user topic.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	if h.totalConns >= maxTotalConns {
		h.mu.Unlock()
		return nil, errors.New("server connection limit reached")
	}
	client := NewClient(h, conn, userID)
	client.topics[UserTopic(userID)] = struct{}{}
	h.addSubscription(UserTopic(userID), client)
	h.totalConns++
	h.mu.Unlock()

	middleware.ActiveWebSockets.Inc()
	return client, nil
}

// Subscribe adds the client to a topic. Invalid topic names and
// over-limit subscriptions are rejected.
func (h *Hub) Subscribe(client *Client, topic string) error {
	if !validTopic(topic) {
		return fmt.Errorf("invalid topic: %s", topic)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := client.topics[topic]; ok {
		return nil
	}
	if len(client.topics) >= maxTopicsPerClient {
		return errors.New("subscription limit reached")
	}
	client.topics[topic] = struct{}{}
	h.addSubscription(topic, client)
	return nil
}

// Unsubscribe removes the client from a topic.
func (h *Hub) Unsubscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(client.topics, topic)
	h.removeSubscription(topic, client)
}

// UnregisterClient drops the client from every topic.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	removed := false
	for topic := range client.topics {
		h.removeSubscription(topic, client)
		removed = true
	}
	if removed {
		client.topics = make(map[string]struct{})
		h.totalConns--
	}
	h.mu.Unlock()

	if removed {
		middleware.ActiveWebSockets.Dec()
	}
}

// Broadcast sends the payload to every client subscribed to topic.
func (h *Hub) Broadcast(topic, payload string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.topics[topic]; ok {
		data := []byte(payload)
		for c := range clients {
			c.TrySend(data)
		}
	}
}

// SubscriberCount returns how many clients a topic currently has.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// StartWiring connects the Notifier to this hub: Redis messages on
// interaction, chat, and user channels are forwarded to the matching
// topic's subscribers. With this in place every app instance delivers
// events published by any instance.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartPatternSubscriber(ctx, func(channel, payload string) {
		topic, ok := topicForChannel(channel)
		if !ok {
			middleware.Logger.Warn("unroutable notification channel", "channel", channel)
			return
		}
		h.Broadcast(topic, payload)
	})
}

// Shutdown gracefully closes all websocket connections.
func (h *Hub) Shutdown(_ context.Context) error {
	close(h.shutdown)

	h.mu.Lock()
	defer h.mu.Unlock()

	seen := make(map[*Client]struct{})
	for _, clients := range h.topics {
		for c := range clients {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			if c.Conn == nil {
				continue
			}
			if err := c.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				middleware.Logger.Warn("failed to write close message", "user_id", c.UserID, "error", err)
			}
			if err := c.Conn.Close(); err != nil {
				middleware.Logger.Warn("failed to close websocket", "user_id", c.UserID, "error", err)
			}
		}
	}
	h.topics = make(map[string]map[*Client]struct{})
	h.totalConns = 0
	return nil
}

// addSubscription and removeSubscription require h.mu held.
func (h *Hub) addSubscription(topic string, client *Client) {
	m, ok := h.topics[topic]
	if !ok {
		m = make(map[*Client]struct{})
		h.topics[topic] = m
	}
	m[client] = struct{}{}
}

func (h *Hub) removeSubscription(topic string, client *Client) {
	if m, ok := h.topics[topic]; ok {
		delete(m, client)
		if len(m) == 0 {
			delete(h.topics, topic)
		}
	}
}

func validTopic(topic string) bool {
	for _, prefix := range []string{"collection:", "post:", "chat:", "user:"} {
		if strings.HasPrefix(topic, prefix) && len(topic) > len(prefix) {
			return true
		}
	}
	return false
}
