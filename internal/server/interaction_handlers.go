// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ToggleCollectionLike handles POST /api/collections/:id/like
func (s *Server) ToggleCollectionLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.interactionService.ToggleCollectionLike(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// CommentOnCollection handles POST /api/collections/:id/comments
func (s *Server) CommentOnCollection(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.interactionService.CommentOnCollection(c.Context(), service.CommentInput{
		UserID:       currentUserID(c),
		CollectionID: id,
		Text:         req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteCollectionComment handles DELETE /api/collections/comments/:commentId
func (s *Server) DeleteCollectionComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.interactionService.DeleteCollectionComment(c.Context(), currentUserID(c), commentID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleCommentLike handles POST /api/collections/comments/:commentId/like
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	liked, err := s.interactionService.ToggleCommentLike(c.Context(), currentUserID(c), commentID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// GetCollectionInteractions handles GET /api/collections/:id/interactions
func (s *Server) GetCollectionInteractions(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	summary, err := s.interactionService.CollectionInteractions(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}

// GetCollectionComments handles GET /api/collections/:id/comments
func (s *Server) GetCollectionComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.interactionService.CollectionComments(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// ToggleApodPostLike handles POST /api/apod/:date/like
func (s *Server) ToggleApodPostLike(c *fiber.Ctx) error {
	date, err := s.parseDateParam(c)
	if err != nil {
		return nil
	}

	var req struct {
		Title     string `json:"title"`
		URL       string `json:"url"`
		MediaType string `json:"media_type"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil && len(c.Body()) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	liked, err := s.interactionService.ToggleApodPostLike(c.Context(), service.PostLikeInput{
		UserID:    currentUserID(c),
		PostID:    date,
		Title:     req.Title,
		URL:       req.URL,
		MediaType: req.MediaType,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// CommentOnApodPost handles POST /api/apod/:date/comments
func (s *Server) CommentOnApodPost(c *fiber.Ctx) error {
	date, err := s.parseDateParam(c)
	if err != nil {
		return nil
	}

	var req struct {
		Text      string `json:"text"`
		Title     string `json:"title"`
		URL       string `json:"url"`
		MediaType string `json:"media_type"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.interactionService.CommentOnApodPost(c.Context(), service.PostCommentInput{
		UserID:    currentUserID(c),
		PostID:    date,
		Title:     req.Title,
		URL:       req.URL,
		MediaType: req.MediaType,
		Text:      req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteApodPostComment handles DELETE /api/apod/comments/:commentId
func (s *Server) DeleteApodPostComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.interactionService.DeleteApodPostComment(c.Context(), currentUserID(c), commentID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetApodPostInteractions handles GET /api/apod/:date/interactions
func (s *Server) GetApodPostInteractions(c *fiber.Ctx) error {
	date, err := s.parseDateParam(c)
	if err != nil {
		return nil
	}

	summary, err := s.interactionService.ApodPostInteractions(c.Context(), date, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(summary)
}

// GetApodPostComments handles GET /api/apod/:date/comments
func (s *Server) GetApodPostComments(c *fiber.Ctx) error {
	date, err := s.parseDateParam(c)
	if err != nil {
		return nil
	}

	comments, err := s.interactionService.ApodPostComments(c.Context(), date)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// GetSavedInCollections handles GET /api/apod/:date/saved-in
func (s *Server) GetSavedInCollections(c *fiber.Ctx) error {
	date, err := s.parseDateParam(c)
	if err != nil {
		return nil
	}

	saved, err := s.interactionService.SavedInCollections(c.Context(), date, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	if saved == nil {
		saved = []models.SavedInCollection{}
	}
	return c.JSON(saved)
}
