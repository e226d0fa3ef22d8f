package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loanworks/loan-service/internal/api/dto"
	"github.com/loanworks/loan-service/internal/service"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

// CibilHandler manages credit-score endpoints.
type CibilHandler struct {
	service *service.CibilService
}

// NewCibilHandler constructs handler.
func NewCibilHandler(cibilService *service.CibilService) *CibilHandler {
	return &CibilHandler{service: cibilService}
}

// GetByUser GET /cibil/user/:userId. NotFound until the first computation
// has run for the user.
func (h *CibilHandler) GetByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := requireOwnerOrAdmin(c, userID); err != nil {
		return err
	}
	score, err := h.service.GetByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCibil(score)})
}

// Upsert POST|PUT /cibil/user/:userId. Recomputes the score from the
// supplied factors; creates the record on first call, overwrites after.
func (h *CibilHandler) Upsert(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := requireOwnerOrAdmin(c, userID); err != nil {
		return err
	}
	var req dto.CibilFactorsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	score, err := h.service.Upsert(c.UserContext(), userID, req.ToFactors())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCibil(score)})
}
