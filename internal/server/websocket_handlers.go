// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/BarishY/Astroverse/internal/middleware"
	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// wsAuth authenticates the WebSocket upgrade request. Browsers cannot
// set headers on WebSocket connects, so a ?token= query parameter is
// accepted alongside the usual Bearer header.
func (s *Server) wsAuth(c *fiber.Ctx) error {
	tokenString := ""
	if authHeader := c.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	userID, err := middleware.ParseToken(tokenString)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired token"))
	}

	if !s.featureFlags.EnabledDefault("realtime", userID, true) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Realtime updates are disabled"))
	}

	c.Locals("userID", userID)
	return c.Next()
}

// wsSubscribeRequest is the client-to-server control message.
type wsSubscribeRequest struct {
	Type  string `json:"type"`
	Topic string `json:"topic"`
}

// WebSocketHandler upgrades the connection and serves topic
// subscriptions. The client subscribes to the collections, posts and
// conversations it has on screen and receives every interaction
// snapshot published for them.
func (s *Server) WebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket: failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		client.IncomingHandler = func(c *notifications.Client, message []byte) {
			var req wsSubscribeRequest
			if err := json.Unmarshal(message, &req); err != nil {
				log.Printf("WebSocket: invalid message from user %d", userID)
				return
			}

			switch req.Type {
			case "subscribe":
				if !s.mayJoinTopic(context.Background(), userID, req.Topic) {
					s.sendControl(c, "error", req.Topic, "not allowed")
					return
				}
				if err := s.hub.Subscribe(c, req.Topic); err != nil {
					s.sendControl(c, "error", req.Topic, err.Error())
					return
				}
				s.sendControl(c, "subscribed", req.Topic, "")

			case "unsubscribe":
				s.hub.Unsubscribe(c, req.Topic)
				s.sendControl(c, "unsubscribed", req.Topic, "")
			}
		}

		s.sendControl(client, "connected", "", "")

		go client.WritePump()
		client.ReadPump()
	})
}

// mayJoinTopic enforces topic-level access. Chat and user topics are
// private to their participants, and a collection topic requires view
// access to the collection since its snapshots carry likers and
// comments. Post topics cover the public APOD pages and stay open.
func (s *Server) mayJoinTopic(ctx context.Context, userID uint, topic string) bool {
	switch {
	case strings.HasPrefix(topic, "chat:"):
		key := strings.TrimPrefix(topic, "chat:")
		var a, b uint
		if _, err := fmt.Sscanf(key, "%d_%d", &a, &b); err != nil {
			return false
		}
		return userID == a || userID == b
	case strings.HasPrefix(topic, "user:"):
		return topic == notifications.UserTopic(userID)
	case strings.HasPrefix(topic, "collection:"):
		var id uint
		if _, err := fmt.Sscanf(strings.TrimPrefix(topic, "collection:"), "%d", &id); err != nil || id == 0 {
			return false
		}
		collection, err := s.collectionRepo.GetByID(ctx, id, userID)
		if err != nil {
			return false
		}
		visible, err := s.accessService.CanViewCollection(ctx, collection, userID)
		return err == nil && visible
	}
	return true
}

func (s *Server) sendControl(c *notifications.Client, msgType, topic, detail string) {
	payload := fiber.Map{"type": msgType}
	if topic != "" {
		payload["topic"] = topic
	}
	if detail != "" {
		payload["detail"] = detail
	}
	if data, err := json.Marshal(payload); err == nil {
		c.TrySend(data)
	}
}
