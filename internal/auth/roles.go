package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JoshyLop/intranet-tickets-api/pkg/apperrors"
)

// RequireAdmin ensures the caller is an administrator.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !caller.IsAdmin {
			return apperrors.NewForbidden("administrator required")
		}
		return c.Next()
	}
}
