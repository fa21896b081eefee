// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"github.com/BarishY/Astroverse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFollowingFeed handles GET /api/feed/following
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	collections, err := s.feedService.FollowingFeed(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(collections)
}

// GetRecentFeed handles GET /api/feed/recent
func (s *Server) GetRecentFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	collections, err := s.feedService.RecentFeed(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(collections)
}

// GetPopularFeed handles GET /api/feed/popular
func (s *Server) GetPopularFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	collections, err := s.feedService.PopularFeed(c.Context(), currentUserID(c), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(collections)
}
