package events

import (
	"time"

	"github.com/loanworks/loan-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoanApplied          EventType = "loan_applied"
	EventLoanApproved         EventType = "loan_approved"
	EventLoanRejected         EventType = "loan_rejected"
	EventPaymentStatusChanged EventType = "payment_status_changed"
	EventCibilUpdated         EventType = "cibil_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoanAppliedPayload payload.
type LoanAppliedPayload struct {
	LoanID    string          `json:"loan_id"`
	LoanType  domain.LoanType `json:"loan_type"`
	Principal string          `json:"principal"`
	EMI       string          `json:"emi"`
}

// LoanDecidedPayload payload for approvals and rejections.
type LoanDecidedPayload struct {
	LoanID          string            `json:"loan_id"`
	NewStatus       domain.LoanStatus `json:"new_status"`
	RejectionReason *string           `json:"rejection_reason,omitempty"`
}

// PaymentStatusChangedPayload payload.
type PaymentStatusChangedPayload struct {
	PaymentID string               `json:"payment_id"`
	OldStatus domain.PaymentStatus `json:"old_status"`
	NewStatus domain.PaymentStatus `json:"new_status"`
	Amount    string               `json:"amount"`
}

// CibilUpdatedPayload payload.
type CibilUpdatedPayload struct {
	Score int `json:"score"`
}
