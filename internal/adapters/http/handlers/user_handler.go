package handlers

import (
	"io"

	"skillbook/internal/adapters/http/middleware"
	"skillbook/internal/core/services"
	"skillbook/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PhotoField is the multipart field carrying a profile photo
const PhotoField = "photo"

// UserHandler handles the caller's own profile
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetMe returns the caller's profile with enrolled courses
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)

	user, err := h.userService.GetProfile(c.Context(), principal.Username)
	if err != nil {
		return respondError(c, err, "get profile")
	}

	return response.Success(c, "Profile retrieved successfully", user.ToResponse())
}

// UpdateMe replaces the caller's profile fields
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(c.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		return respondError(c, err, "update profile")
	}

	return response.Success(c, "Profile updated successfully", user.ToResponse())
}

// GetPhoto streams the caller's profile photo
func (h *UserHandler) GetPhoto(c *fiber.Ctx) error {
	data, contentType, err := h.userService.GetPhoto(c.Context(), middleware.GetPrincipal(c))
	if err != nil {
		return respondError(c, err, "get photo")
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

// UploadPhoto replaces the caller's profile photo
func (h *UserHandler) UploadPhoto(c *fiber.Ctx) error {
	fh, err := c.FormFile(PhotoField)
	if err != nil {
		return response.BadRequest(c, "Photo is required")
	}
	if fh.Size > services.MaxPhotoBytes {
		return response.BadRequest(c, "Photo must be at most 2 MiB")
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, err, "read photo")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, services.MaxPhotoBytes+1))
	if err != nil {
		return respondError(c, err, "read photo")
	}

	if err := h.userService.SetPhoto(c.Context(), middleware.GetPrincipal(c), fh.Header.Get(fiber.HeaderContentType), data); err != nil {
		return respondError(c, err, "upload photo")
	}

	return response.Success(c, "Photo uploaded successfully", nil)
}
