package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus enumerates installment states.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

// ParsePaymentStatus validates a status string case-insensitively.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case PaymentStatusPending:
		return PaymentStatusPending, true
	case PaymentStatusPaid:
		return PaymentStatusPaid, true
	case PaymentStatusOverdue:
		return PaymentStatusOverdue, true
	}
	return "", false
}

// Payment is a scheduled or recorded installment obligation.
// Invariant: PaidDate is set if and only if Status is PAID.
type Payment struct {
	ID       string
	LoanID   string
	UserID   string
	Amount   decimal.Decimal
	DueDate  time.Time
	PaidDate *time.Time
	Status   PaymentStatus
}

// IsOverdue reports whether the payment is logically overdue at the given
// time. Stored status is never flipped to OVERDUE by a background process;
// this is the query-time classification used by pending views and reporting.
func (p Payment) IsOverdue(now time.Time) bool {
	if p.Status == PaymentStatusOverdue {
		return true
	}
	return p.Status == PaymentStatusPending && p.DueDate.Before(truncateToDay(now))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
