package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/events"
	"github.com/loanworks/loan-service/internal/repository"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

// NotificationService persists user-facing notifications for domain
// events. The stored records also feed the admin recent-activity view.
type NotificationService struct {
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventLoanApplied, n.handleLoanApplied)
	n.dispatcher.Subscribe(events.EventLoanApproved, n.handleLoanDecided)
	n.dispatcher.Subscribe(events.EventLoanRejected, n.handleLoanDecided)
	n.dispatcher.Subscribe(events.EventPaymentStatusChanged, n.handlePaymentStatusChanged)
	n.dispatcher.Subscribe(events.EventCibilUpdated, n.handleCibilUpdated)
}

// ListForUser returns a user's notifications, newest first.
func (n *NotificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return n.notifications.ListByUser(ctx, userID)
}

// MarkRead flags a notification as read.
func (n *NotificationService) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	if err := n.notifications.MarkRead(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("notification", map[string]any{"notification_id": id})
		}
		return nil, err
	}
	return n.notifications.GetByID(ctx, id)
}

// Create stores an explicit notification.
func (n *NotificationService) Create(ctx context.Context, userID string, notifType domain.NotificationType, message string) (*domain.Notification, error) {
	record := &domain.Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
	}
	if err := n.notifications.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes a notification; absent ids are a no-op.
func (n *NotificationService) Delete(ctx context.Context, id string) error {
	return n.notifications.Delete(ctx, id)
}

func (n *NotificationService) handleLoanApplied(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.LoanAppliedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Loan application received: %s for %s (EMI %s/month)",
		payload.LoanType, payload.Principal, payload.EMI)
	return n.persist(ctx, event.UserID, domain.NotificationLoanApplied, message)
}

func (n *NotificationService) handleLoanDecided(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.LoanDecidedPayload)
	if !ok {
		return nil
	}
	var (
		notifType domain.NotificationType
		message   string
	)
	if payload.NewStatus == domain.LoanStatusRejected {
		notifType = domain.NotificationLoanRejected
		message = "Your loan application was rejected"
		if payload.RejectionReason != nil && *payload.RejectionReason != "" {
			message += ": " + *payload.RejectionReason
		}
	} else {
		notifType = domain.NotificationLoanApproved
		message = "Your loan has been approved and is now active"
	}
	return n.persist(ctx, event.UserID, notifType, message)
}

func (n *NotificationService) handlePaymentStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PaymentStatusChangedPayload)
	if !ok {
		return nil
	}
	var (
		notifType domain.NotificationType
		message   string
	)
	switch payload.NewStatus {
	case domain.PaymentStatusPaid:
		notifType = domain.NotificationPaymentDue
		message = fmt.Sprintf("Payment of %s recorded", payload.Amount)
	case domain.PaymentStatusOverdue:
		notifType = domain.NotificationPaymentOverdue
		message = fmt.Sprintf("Payment of %s is overdue", payload.Amount)
	default:
		notifType = domain.NotificationPaymentDue
		message = fmt.Sprintf("Payment of %s is due", payload.Amount)
	}
	return n.persist(ctx, event.UserID, notifType, message)
}

func (n *NotificationService) handleCibilUpdated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CibilUpdatedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Your CIBIL score was updated to %d", payload.Score)
	return n.persist(ctx, event.UserID, domain.NotificationCibilUpdate, message)
}

func (n *NotificationService) persist(ctx context.Context, userID string, notifType domain.NotificationType, message string) error {
	record := &domain.Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
	}
	if err := n.notifications.Create(ctx, record); err != nil {
		n.logger.Error("failed to persist notification",
			zap.String("user_id", userID),
			zap.String("type", string(notifType)),
			zap.Error(err))
		return err
	}
	n.logger.Info("notification created",
		zap.String("user_id", userID),
		zap.String("type", string(notifType)))
	return nil
}
