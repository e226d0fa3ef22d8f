package domain

import "time"

// NotificationType labels the originating event of a notification.
type NotificationType string

const (
	NotificationLoanApplied    NotificationType = "loan_applied"
	NotificationLoanApproved   NotificationType = "loan_approved"
	NotificationLoanRejected   NotificationType = "loan_rejected"
	NotificationPaymentDue     NotificationType = "payment_due"
	NotificationPaymentOverdue NotificationType = "payment_overdue"
	NotificationCibilUpdate    NotificationType = "cibil_update"
)

// Notification is a user-facing message; the newest ten also feed the
// admin recent-activity view.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Message   string
	Read      bool
	CreatedAt time.Time
}
