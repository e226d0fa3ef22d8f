package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/loanworks/loan-service/internal/api/dto"
	"github.com/loanworks/loan-service/internal/auth"
	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/finance"
	"github.com/loanworks/loan-service/internal/service"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

// LoansHandler manages the loan lifecycle endpoints.
type LoansHandler struct {
	service *service.LoanService
}

// NewLoansHandler constructs handler.
func NewLoansHandler(loanService *service.LoanService) *LoansHandler {
	return &LoansHandler{service: loanService}
}

// Apply POST /loans/apply. Regular users always apply for themselves;
// admins may apply on behalf of another user via user_id.
func (h *LoansHandler) Apply(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.LoanApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	userID := principal.User.ID
	if req.UserID != "" && req.UserID != userID {
		if principal.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("cannot apply on behalf of another user")
		}
		userID = req.UserID
	}
	loanType, ok := domain.ParseLoanType(req.LoanType)
	if !ok {
		return apperrors.NewInvalidArgument("unknown loan type", map[string]any{"loan_type": req.LoanType})
	}
	principalAmount, err := finance.ParseAmount(req.Principal)
	if err != nil {
		return apperrors.NewInvalidArgument("invalid principal", map[string]any{"principal": req.Principal})
	}
	rate, err := finance.ParseAmount(req.InterestRate)
	if err != nil {
		return apperrors.NewInvalidArgument("invalid interest rate", map[string]any{"interest_rate": req.InterestRate})
	}
	input := service.LoanApplication{
		LoanType:         loanType,
		Principal:        principalAmount,
		InterestRate:     rate,
		TenureMonths:     req.TenureMonths,
		UploadedFileName: req.FileName,
		UploadedFilePath: req.FilePath,
	}
	if req.EMI != nil {
		emi, err := finance.ParseAmount(*req.EMI)
		if err != nil {
			return apperrors.NewInvalidArgument("invalid emi", map[string]any{"emi": *req.EMI})
		}
		input.EMI = &emi
	}
	loan, err := h.service.Apply(c.UserContext(), userID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromLoan(loan)})
}

// ComputeEMI GET /loans/emi. Stateless calculator used before applying.
func (h *LoansHandler) ComputeEMI(c *fiber.Ctx) error {
	principal, err := finance.ParseAmount(c.Query("principal"))
	if err != nil {
		return apperrors.NewInvalidArgument("invalid principal", map[string]any{"principal": c.Query("principal")})
	}
	rate, err := finance.ParseAmount(c.Query("interest_rate"))
	if err != nil {
		return apperrors.NewInvalidArgument("invalid interest rate", map[string]any{"interest_rate": c.Query("interest_rate")})
	}
	tenure := c.QueryInt("tenure_months")
	emi, err := finance.EMI(principal, rate, tenure)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"emi": emi}})
}

// ListAll GET /loans (admin).
func (h *LoansHandler) ListAll(c *fiber.Ctx) error {
	loans, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromLoans(loans)})
}

// GetByID GET /loans/:id.
func (h *LoansHandler) GetByID(c *fiber.Ctx) error {
	loan, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if err := requireOwnerOrAdmin(c, loan.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromLoan(loan)})
}

// ListByUser GET /loans/user/:userId.
func (h *LoansHandler) ListByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := requireOwnerOrAdmin(c, userID); err != nil {
		return err
	}
	loans, err := h.service.ListByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromLoans(loans)})
}

// Update PUT /loans/:id (admin). Partial update; absent fields keep
// their stored values.
func (h *LoansHandler) Update(c *fiber.Ctx) error {
	var req dto.LoanUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	patch := service.LoanPatch{
		RejectionReason:  req.RejectionReason,
		UploadedFileName: req.FileName,
		UploadedFilePath: req.FilePath,
	}
	if req.Status != nil {
		status, ok := domain.ParseLoanStatus(*req.Status)
		if !ok {
			return apperrors.NewInvalidArgument("unknown loan status", map[string]any{"status": *req.Status})
		}
		patch.Status = &status
	}
	if req.OutstandingBalance != nil {
		balance, err := finance.ParseAmount(*req.OutstandingBalance)
		if err != nil {
			return apperrors.NewInvalidArgument("invalid outstanding balance", map[string]any{"outstanding_balance": *req.OutstandingBalance})
		}
		if balance.LessThan(decimal.Zero) {
			return apperrors.NewInvalidArgument("outstanding balance cannot be negative", nil)
		}
		patch.OutstandingBalance = &balance
	}
	loan, err := h.service.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromLoan(loan)})
}

// Delete DELETE /loans/:id (admin). Deleting an absent loan succeeds.
func (h *LoansHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func requireOwnerOrAdmin(c *fiber.Ctx, ownerID string) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if principal.Role != domain.RoleAdmin && principal.User.ID != ownerID {
		return apperrors.NewForbidden("not the resource owner")
	}
	return nil
}
