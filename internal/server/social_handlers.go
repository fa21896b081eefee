// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"github.com/BarishY/Astroverse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.socialService.FollowUser(c.Context(), currentUserID(c), followeeID); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"following": true})
}

// UnfollowUser handles DELETE /api/users/:id/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.socialService.UnfollowUser(c.Context(), currentUserID(c), followeeID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"following": false})
}

// GetFollowStatus handles GET /api/users/:id/follow
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	followeeID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.socialService.IsFollowing(c.Context(), currentUserID(c), followeeID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(fiber.Map{"following": following})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	users, err := s.socialService.Followers(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(users)
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	users, err := s.socialService.Following(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(users)
}

// GetMutuals handles GET /api/users/me/mutuals
func (s *Server) GetMutuals(c *fiber.Ctx) error {
	users, err := s.socialService.Mutuals(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(users)
}
