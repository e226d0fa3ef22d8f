package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/loanworks/loan-service/internal/api/dto"
	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/service"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

// NotificationsHandler manages user notification endpoints.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// ListByUser GET /notifications/user/:userId.
func (h *NotificationsHandler) ListByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := requireOwnerOrAdmin(c, userID); err != nil {
		return err
	}
	list, err := h.service.ListForUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromNotifications(list)})
}

// MarkRead PUT /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	notification, err := h.service.MarkRead(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromNotification(notification)})
}

// Create POST /notifications (admin).
func (h *NotificationsHandler) Create(c *fiber.Ctx) error {
	var req struct {
		UserID  string `json:"user_id"`
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid payload", nil)
	}
	if req.UserID == "" || req.Message == "" {
		return apperrors.NewInvalidArgument("user_id, message required", nil)
	}
	notification, err := h.service.Create(c.UserContext(), req.UserID, domain.NotificationType(req.Type), req.Message)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromNotification(notification)})
}

// Delete DELETE /notifications/:id (admin).
func (h *NotificationsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
