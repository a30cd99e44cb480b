package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JoshyLop/intranet-tickets-api/internal/api/dto"
	"github.com/JoshyLop/intranet-tickets-api/internal/service"
	"github.com/JoshyLop/intranet-tickets-api/pkg/apperrors"
)

// UserHandler serves registration, login and the read-only user directory.
type UserHandler struct {
	auth      *service.AuthService
	directory *service.DirectoryService
}

// NewUserHandler constructs the handler.
func NewUserHandler(authService *service.AuthService, directory *service.DirectoryService) *UserHandler {
	return &UserHandler{auth: authService, directory: directory}
}

// Register handles POST /auth/users/register.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid request body", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidation("username, email and password are required", nil)
	}

	user, token, expiresAt, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": dto.AuthResponse{Token: token, ExpiresAt: expiresAt, User: dto.NewUserResponse(user)},
	})
}

// Login handles POST /auth/users/login.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid request body", nil)
	}

	user, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{Token: token, ExpiresAt: expiresAt, User: dto.NewUserResponse(user)},
	})
}

// List handles GET /api/users.
func (h *UserHandler) List(c *fiber.Ctx) error {
	var query service.UserQuery
	if raw := c.Query("search"); raw != "" {
		query.Search = &raw
	}
	limit, offset, err := parsePagination(c)
	if err != nil {
		return err
	}
	query.Limit = limit
	query.Offset = offset

	users, err := h.directory.List(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.directory.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
