package handlers

import (
	"errors"
	"log"

	"skillbook/internal/core/domain"
	"skillbook/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError translates a service error into the response envelope.
// Internal failures are logged and answered with a generic message.
func respondError(c *fiber.Ctx, err error, action string) error {
	switch {
	// A duplicate username is reported as a bad request
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
		return response.BadRequest(c, domain.PublicMessage(err, "Invalid request"))
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, domain.PublicMessage(err, "Resource not found"))
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthenticated):
		return response.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, domain.PublicMessage(err, "You don't have permission to access this resource"))
	default:
		log.Printf("❌ Failed to %s: %v", action, err)
		return response.InternalServerError(c, "Failed to "+action)
	}
}

// parseID reads a positive numeric route parameter
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
