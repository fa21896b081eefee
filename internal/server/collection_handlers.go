// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCollection handles POST /api/collections
func (s *Server) CreateCollection(c *fiber.Ctx) error {
	var req struct {
		Name    string `json:"name"`
		Privacy string `json:"privacy"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	collection, err := s.collectionService.CreateCollection(c.Context(), service.CreateCollectionInput{
		OwnerID: currentUserID(c),
		Name:    req.Name,
		Privacy: models.CollectionPrivacy(req.Privacy),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(collection)
}

// GetCollection handles GET /api/collections/:id
func (s *Server) GetCollection(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	collection, err := s.collectionService.GetCollection(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(collection)
}

// GetCollectionItems handles GET /api/collections/:id/items
func (s *Server) GetCollectionItems(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	items, err := s.collectionService.GetCollectionItems(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(items)
}

// GetUserCollections handles GET /api/users/:id/collections
func (s *Server) GetUserCollections(c *fiber.Ctx) error {
	ownerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	collections, err := s.collectionService.ListUserCollections(c.Context(), ownerID, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(collections)
}

// UpdateCollection handles PUT /api/collections/:id
func (s *Server) UpdateCollection(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name    string `json:"name"`
		Privacy string `json:"privacy"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	collection, err := s.collectionService.UpdateCollection(c.Context(), service.UpdateCollectionInput{
		UserID:       currentUserID(c),
		CollectionID: id,
		Name:         req.Name,
		Privacy:      models.CollectionPrivacy(req.Privacy),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(collection)
}

// DeleteCollection handles DELETE /api/collections/:id
func (s *Server) DeleteCollection(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.collectionService.DeleteCollection(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReorderCollections handles PUT /api/collections/reorder
func (s *Server) ReorderCollections(c *fiber.Ctx) error {
	var req struct {
		OrderedIDs []uint `json:"ordered_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.collectionService.Reorder(c.Context(), currentUserID(c), req.OrderedIDs); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Collections reordered"})
}

// ToggleCollectionItem handles POST /api/collections/:id/items.
// Adding a date already in the collection removes it instead.
func (s *Server) ToggleCollectionItem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		PostID    string `json:"post_id"`
		Title     string `json:"title"`
		URL       string `json:"url"`
		MediaType string `json:"media_type"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.collectionService.ToggleItem(c.Context(), service.ToggleItemInput{
		UserID:       currentUserID(c),
		CollectionID: id,
		PostID:       req.PostID,
		Title:        req.Title,
		URL:          req.URL,
		MediaType:    req.MediaType,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"result": result})
}
