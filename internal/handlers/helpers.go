package handlers

import (
	"strconv"

	"nocage/internal/models"

	"github.com/gofiber/fiber/v2"
)

// extractUserClaims pulls the JWT claims the auth middleware stored.
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

// parseIDParam parses the :id path parameter.
func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parseCursor parses the optional cursor query parameter.
func parseCursor(c *fiber.Ctx) *uint {
	raw := c.Query("cursor")
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	cursor := uint(v)
	return &cursor
}
