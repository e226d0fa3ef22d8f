package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/loan-service/internal/domain"
)

// PaymentCreateRequest schedules an installment. DueDate is a calendar
// date in YYYY-MM-DD form.
type PaymentCreateRequest struct {
	LoanID  string `json:"loan_id"`
	Amount  string `json:"amount"`
	DueDate string `json:"due_date"`
}

// PaymentStatusRequest changes an installment's status.
type PaymentStatusRequest struct {
	Status string `json:"status"`
}

// PaymentResponse is the public payment shape.
type PaymentResponse struct {
	ID       string          `json:"id"`
	LoanID   string          `json:"loan_id"`
	UserID   string          `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  time.Time       `json:"due_date"`
	PaidDate *time.Time      `json:"paid_date,omitempty"`
	Status   string          `json:"status"`
	Overdue  bool            `json:"overdue"`
}

// FromPayment maps a domain payment onto the response shape, classifying
// overdue against the supplied clock.
func FromPayment(payment *domain.Payment, now time.Time) PaymentResponse {
	return PaymentResponse{
		ID:       payment.ID,
		LoanID:   payment.LoanID,
		UserID:   payment.UserID,
		Amount:   payment.Amount,
		DueDate:  payment.DueDate,
		PaidDate: payment.PaidDate,
		Status:   string(payment.Status),
		Overdue:  payment.IsOverdue(now),
	}
}

// FromPayments maps a slice of payments.
func FromPayments(payments []domain.Payment, now time.Time) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, FromPayment(&payments[i], now))
	}
	return out
}
