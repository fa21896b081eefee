package middleware

import (
	"strconv"
	"strings"

	"github.com/BarishY/Astroverse/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	userID, err := ParseToken(parts[1])
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals("userID", userID)
	return c.Next()
}

// OptionalAuth populates c.Locals("userID") when a valid bearer token is
// present but lets the request through either way. Used by read
// endpoints whose results are personalized for signed-in users.
func OptionalAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Next()
	}
	if userID, err := ParseToken(parts[1]); err == nil {
		c.Locals("userID", userID)
	}
	return c.Next()
}

// ParseToken validates a signed JWT and returns the user ID from its
// subject claim.
func ParseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	// Subject claim per RFC 7519 carries the user ID.
	subClaim, ok := claims["sub"]
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}
	subStr, ok := subClaim.(string)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token subject type")
	}
	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}
	return uint(userIDVal), nil
}

// CurrentUserID returns the authenticated user's ID from locals, or 0.
func CurrentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}
