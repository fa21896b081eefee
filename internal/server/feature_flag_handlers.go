package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags handles GET /api/feature-flags, returning the
// evaluated flag state for the signed-in user.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"flags": s.featureFlags.Snapshot(currentUserID(c)),
	})
}
