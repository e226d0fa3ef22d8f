package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/loanworks/loan-service/internal/api/dto"
	"github.com/loanworks/loan-service/internal/service"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

// AdminHandler serves the aggregation and administration surface. All
// routes behind it require the ADMIN role.
type AdminHandler struct {
	reporting *service.ReportingService
	loans     *service.LoanService
	auth      *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(reporting *service.ReportingService, loans *service.LoanService, authService *service.AuthService) *AdminHandler {
	return &AdminHandler{reporting: reporting, loans: loans, auth: authService}
}

// Stats GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.reporting.DashboardStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.FromUser(&users[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Distribution GET /admin/distribution.
func (h *AdminHandler) Distribution(c *fiber.Ctx) error {
	counts, err := h.reporting.LoanDistribution(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": counts})
}

// Trends GET /admin/trends. Always six points, oldest month first.
func (h *AdminHandler) Trends(c *fiber.Ctx) error {
	trend, err := h.reporting.DisbursementTrend(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": trend})
}

// Logs GET /admin/logs.
func (h *AdminHandler) Logs(c *fiber.Ctx) error {
	entries, err := h.reporting.RecentActivity(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}

// DownloadReport GET /admin/report/download?month=YYYY-MM. Without the
// month query the report covers the whole loan book.
func (h *AdminHandler) DownloadReport(c *fiber.Ctx) error {
	month := c.Query("month")
	report, err := h.reporting.LoanReportCSV(c.UserContext(), month)
	if err != nil {
		return err
	}
	filename := "loan-report.csv"
	if month != "" {
		filename = fmt.Sprintf("loan-report-%s.csv", month)
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(report)
}

// DecideLoan POST /admin/loan/:id/decision.
func (h *AdminHandler) DecideLoan(c *fiber.Ctx) error {
	var req dto.LoanDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if req.Action == "" {
		return apperrors.NewInvalidArgument("action required", nil)
	}
	var doc *service.DecisionDocument
	if req.FileName != nil || req.FilePath != nil {
		doc = &service.DecisionDocument{}
		if req.FileName != nil {
			doc.FileName = *req.FileName
		}
		if req.FilePath != nil {
			doc.FilePath = *req.FilePath
		}
	}
	loan, err := h.loans.Decide(c.UserContext(), c.Params("id"), req.Action, req.RejectionReason, doc)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromLoan(loan)})
}
