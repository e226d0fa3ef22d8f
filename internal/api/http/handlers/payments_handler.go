package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/loanworks/loan-service/internal/api/dto"
	"github.com/loanworks/loan-service/internal/finance"
	"github.com/loanworks/loan-service/internal/service"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

const dueDateLayout = "2006-01-02"

// PaymentsHandler manages installment endpoints.
type PaymentsHandler struct {
	service *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(paymentService *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{service: paymentService}
}

// Create POST /payments (admin).
func (h *PaymentsHandler) Create(c *fiber.Ctx) error {
	var req dto.PaymentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if req.LoanID == "" {
		return apperrors.NewInvalidArgument("loan_id required", nil)
	}
	amount, err := finance.ParseAmount(req.Amount)
	if err != nil {
		return apperrors.NewInvalidArgument("invalid amount", map[string]any{"amount": req.Amount})
	}
	dueDate, err := time.Parse(dueDateLayout, req.DueDate)
	if err != nil {
		return apperrors.NewInvalidArgument("invalid due date, want YYYY-MM-DD", map[string]any{"due_date": req.DueDate})
	}
	payment, err := h.service.Create(c.UserContext(), service.PaymentInput{
		LoanID:  req.LoanID,
		Amount:  amount,
		DueDate: dueDate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromPayment(payment, time.Now())})
}

// ListAll GET /payments (admin).
func (h *PaymentsHandler) ListAll(c *fiber.Ctx) error {
	payments, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPayments(payments, time.Now())})
}

// ListByUser GET /payments/user/:userId.
func (h *PaymentsHandler) ListByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := requireOwnerOrAdmin(c, userID); err != nil {
		return err
	}
	payments, err := h.service.ListByUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPayments(payments, time.Now())})
}

// ListPendingByUser GET /payments/user/:userId/pending. Includes stored
// PENDING rows whose due date has passed, classified overdue in the
// response without rewriting the stored status.
func (h *PaymentsHandler) ListPendingByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := requireOwnerOrAdmin(c, userID); err != nil {
		return err
	}
	payments, err := h.service.ListPendingForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPayments(payments, time.Now())})
}

// ListByLoan GET /payments/loan/:loanId.
func (h *PaymentsHandler) ListByLoan(c *fiber.Ctx) error {
	payments, err := h.service.ListByLoan(c.UserContext(), c.Params("loanId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPayments(payments, time.Now())})
}

// UpdateStatus PUT /payments/:id/status (admin).
func (h *PaymentsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.PaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	payment, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPayment(payment, time.Now())})
}
