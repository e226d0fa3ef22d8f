package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loanworks/loan-service/internal/api/dto"
	"github.com/loanworks/loan-service/internal/auth"
	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/service"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

// UsersHandler manages registration, login and profile endpoints.
type UsersHandler struct {
	service *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{service: authService}
}

// Register POST /users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewInvalidArgument("name, email, password required", nil)
	}
	role := domain.RoleUser
	if req.Role != "" {
		switch domain.Role(req.Role) {
		case domain.RoleUser, domain.RoleAdmin:
			role = domain.Role(req.Role)
		default:
			return apperrors.NewInvalidArgument("unknown role", map[string]any{"role": req.Role})
		}
	}
	user, token, expiresAt, err := h.service.Register(c.UserContext(), req.Name, req.Email, req.Password, req.Phone, role)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.FromUser(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// Login POST /users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewInvalidArgument("email, password required", nil)
	}
	user, token, expiresAt, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.FromUser(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: expiresAt},
		},
	})
}

// GetProfile GET /users/:id. Users may only read themselves; admins may
// read anyone.
func (h *UsersHandler) GetProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	id := c.Params("id")
	if principal.Role != domain.RoleAdmin && principal.User.ID != id {
		return apperrors.NewForbidden("cannot read another user's profile")
	}
	user, err := h.service.GetProfile(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromUser(user)})
}
