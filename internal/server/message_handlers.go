// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		ToID uint   `json:"to_id"`
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.SendMessage(c.Context(), service.SendMessageInput{
		FromID: currentUserID(c),
		ToID:   req.ToID,
		Text:   req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetMessageHistory handles GET /api/messages/:userId
func (s *Server) GetMessageHistory(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	messages, err := s.messageService.History(c.Context(), currentUserID(c), otherID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(messages)
}

// GetConversations handles GET /api/messages/conversations
func (s *Server) GetConversations(c *fiber.Ctx) error {
	previews, err := s.messageService.Conversations(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(previews)
}

// MarkConversationSeen handles POST /api/messages/:userId/seen
func (s *Server) MarkConversationSeen(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	updated, err := s.messageService.MarkSeen(c.Context(), currentUserID(c), otherID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}
