package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/JoshyLop/intranet-tickets-api/internal/api/dto"
	"github.com/JoshyLop/intranet-tickets-api/internal/auth"
	"github.com/JoshyLop/intranet-tickets-api/internal/service"
	"github.com/JoshyLop/intranet-tickets-api/pkg/apperrors"
)

// ProfileHandler serves the user profile endpoints.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Create handles POST /api/profiles.
func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid request body", nil)
	}

	profile, err := h.profiles.CreateFor(c.UserContext(), caller, req.UserID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// Me handles GET /api/profiles/me.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	profile, err := h.profiles.Me(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// Get handles GET /api/profiles/:id (keyed by user id).
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	profile, err := h.profiles.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// List handles GET /api/profiles.
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	var query service.ProfileQuery
	if raw := c.Query("is_support_staff"); raw != "" {
		isSupportStaff, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.NewValidation("invalid is_support_staff filter", map[string]any{"field": "is_support_staff"})
		}
		query.IsSupportStaff = &isSupportStaff
	}
	if raw := c.Query("department"); raw != "" {
		query.Department = &raw
	}
	if raw := c.Query("search"); raw != "" {
		query.Search = &raw
	}
	limit, offset, err := parsePagination(c)
	if err != nil {
		return err
	}
	query.Limit = limit
	query.Offset = offset

	profiles, err := h.profiles.List(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponses(profiles)})
}

// Update handles PATCH /api/profiles/:id.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid request body", nil)
	}

	input := service.ProfileUpdateInput{
		Department:     req.Department,
		Phone:          req.Phone,
		IsSupportStaff: req.IsSupportStaff,
	}
	if req.Avatar != nil {
		input.Avatar = &service.AvatarInput{
			StorageKey: req.Avatar.StorageKey,
			MimeType:   req.Avatar.MimeType,
			SizeBytes:  req.Avatar.SizeBytes,
		}
	}

	profile, err := h.profiles.Update(c.UserContext(), caller, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// Delete handles DELETE /api/profiles/:id.
func (h *ProfileHandler) Delete(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.profiles.Delete(c.UserContext(), caller, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
