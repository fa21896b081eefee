// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"github.com/BarishY/Astroverse/internal/models"
	"github.com/BarishY/Astroverse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Bio      string `json:"bio"`
		Avatar   string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:   currentUserID(c),
		Username: req.Username,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	user, err := s.socialService.GetProfile(c.Context(), username)
	if err != nil {
		return respondServiceError(c, err)
	}

	viewerID := currentUserID(c)
	following := false
	if viewerID != 0 && viewerID != user.ID {
		following, err = s.socialService.IsFollowing(c.Context(), viewerID, user.ID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
	}

	return c.JSON(fiber.Map{
		"user":      user,
		"following": following,
	})
}

// SearchUsers handles GET /api/users/search?q=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	q := c.Query("q")
	page := parsePagination(c, 20)

	users, err := s.socialService.SearchUsers(c.Context(), q, page.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}
