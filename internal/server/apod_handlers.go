// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"errors"
	"time"

	"github.com/BarishY/Astroverse/internal/apod"
	"github.com/BarishY/Astroverse/internal/cache"
	"github.com/BarishY/Astroverse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseDateParam extracts the :date route parameter as a YYYY-MM-DD
// string. On failure it writes a 400 response and returns
// errResponseWritten, like parseID.
func (s *Server) parseDateParam(c *fiber.Ctx) (string, error) {
	date := c.Params("date")
	if _, err := time.Parse(apod.DateLayout, date); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid date, expected YYYY-MM-DD"))
		return "", errResponseWritten
	}
	return date, nil
}

// GetApodToday handles GET /api/apod/today
func (s *Server) GetApodToday(c *fiber.Ctx) error {
	date := time.Now().UTC().Format(apod.DateLayout)
	return s.respondWithEntry(c, date)
}

// GetApodByDate handles GET /api/apod/:date
func (s *Server) GetApodByDate(c *fiber.Ctx) error {
	date, err := s.parseDateParam(c)
	if err != nil {
		return nil
	}
	return s.respondWithEntry(c, date)
}

// respondWithEntry serves a single APOD entry, cache-aside cached since
// a day's entry never changes once published.
func (s *Server) respondWithEntry(c *fiber.Ctx, date string) error {
	ctx := c.Context()

	var entry apod.Entry
	err := cache.Aside(ctx, cache.ApodDateKey(date), &entry, cache.ApodTTL, func() error {
		fetched, fetchErr := s.apodClient.GetByDate(ctx, date)
		if fetchErr != nil {
			return fetchErr
		}
		entry = *fetched
		return nil
	})
	if err != nil {
		if errors.Is(err, apod.ErrNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("APOD entry", date))
		}
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewInternalError(err))
	}

	return c.JSON(entry)
}

// GetApodRecent handles GET /api/apod/recent
func (s *Server) GetApodRecent(c *fiber.Ctx) error {
	entries, err := s.apodClient.Recent(c.Context())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewInternalError(err))
	}
	return c.JSON(entries)
}

// GetApodRange handles GET /api/apod/range?start=...&end=...
func (s *Server) GetApodRange(c *fiber.Ctx) error {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("start and end query parameters are required"))
	}
	for _, d := range []string{start, end} {
		if _, err := time.Parse(apod.DateLayout, d); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid date, expected YYYY-MM-DD"))
		}
	}

	entries, err := s.apodClient.GetRange(c.Context(), start, end)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewInternalError(err))
	}
	return c.JSON(entries)
}
