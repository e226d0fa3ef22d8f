package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loanworks/loan-service/internal/api/dto"
	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/service"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

// JobsHandler manages job-board endpoints.
type JobsHandler struct {
	service *service.JobService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobService *service.JobService) *JobsHandler {
	return &JobsHandler{service: jobService}
}

// ListAll GET /jobs.
func (h *JobsHandler) ListAll(c *fiber.Ctx) error {
	jobs, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromJobs(jobs)})
}

// GetByID GET /jobs/:id.
func (h *JobsHandler) GetByID(c *fiber.Ctx) error {
	job, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromJob(job)})
}

// Create POST /jobs (admin).
func (h *JobsHandler) Create(c *fiber.Ctx) error {
	var req dto.JobCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	job := &domain.Job{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Salary:       req.Salary,
		Type:         domain.JobType(req.Type),
		Description:  req.Description,
		Requirements: req.Requirements,
	}
	created, err := h.service.Create(c.UserContext(), job)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromJob(created)})
}

// Delete DELETE /jobs/:id (admin).
func (h *JobsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
