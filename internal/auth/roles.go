package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loanworks/loan-service/internal/domain"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

// RequireAuthenticated ensures the caller holds a valid principal.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller holds the ADMIN role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
