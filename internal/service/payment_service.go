package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/events"
	"github.com/loanworks/loan-service/internal/finance"
	"github.com/loanworks/loan-service/internal/repository"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

// PaymentService manages installment records and their status. Payments
// are created independently, not auto-generated from the amortization
// schedule, and a stored status is never silently flipped to OVERDUE:
// overdue classification happens at query time.
type PaymentService struct {
	payments   repository.PaymentRepository
	loans      repository.LoanRepository
	dispatcher events.Dispatcher
}

// PaymentDependencies bundles repositories for the payment service.
type PaymentDependencies struct {
	PaymentRepo repository.PaymentRepository
	LoanRepo    repository.LoanRepository
	Dispatcher  events.Dispatcher
}

// PaymentInput describes a new installment obligation.
type PaymentInput struct {
	LoanID  string
	Amount  decimal.Decimal
	DueDate time.Time
}

// NewPaymentService constructs the service.
func NewPaymentService(deps PaymentDependencies) *PaymentService {
	return &PaymentService{
		payments:   deps.PaymentRepo,
		loans:      deps.LoanRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create records a scheduled installment for a loan. The owning user is
// denormalized from the loan so the two can never disagree.
func (s *PaymentService) Create(ctx context.Context, input PaymentInput) (*domain.Payment, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewInvalidArgument("amount must be positive", nil)
	}
	loan, err := s.loans.GetByID(ctx, input.LoanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("loan", map[string]any{"loan_id": input.LoanID})
		}
		return nil, err
	}

	payment := &domain.Payment{
		LoanID:  loan.ID,
		UserID:  loan.UserID,
		Amount:  finance.RoundMoney(input.Amount),
		DueDate: input.DueDate,
		Status:  domain.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdateStatus sets a payment's status from its wire representation.
// Moving to PAID stamps the paid date with today; moving anywhere else
// clears it, keeping the paid-date invariant intact both ways.
func (s *PaymentService) UpdateStatus(ctx context.Context, paymentID, status string) (*domain.Payment, error) {
	parsed, ok := domain.ParsePaymentStatus(status)
	if !ok {
		return nil, apperrors.NewInvalidArgument("invalid payment status", map[string]any{
			"status": status,
		})
	}

	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("payment", map[string]any{"payment_id": paymentID})
		}
		return nil, err
	}

	oldStatus := payment.Status
	payment.Status = parsed
	if parsed == domain.PaymentStatusPaid {
		paidAt := today()
		payment.PaidDate = &paidAt
	} else {
		payment.PaidDate = nil
	}

	if err := s.payments.Update(ctx, payment); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventPaymentStatusChanged,
		UserID: payment.UserID,
		Payload: events.PaymentStatusChangedPayload{
			PaymentID: payment.ID,
			OldStatus: oldStatus,
			NewStatus: payment.Status,
			Amount:    payment.Amount.StringFixed(2),
		},
	})
	return payment, nil
}

// MarkPaid is the common externally-driven transition.
func (s *PaymentService) MarkPaid(ctx context.Context, paymentID string) (*domain.Payment, error) {
	return s.UpdateStatus(ctx, paymentID, string(domain.PaymentStatusPaid))
}

// ListByUser returns a user's payments ordered by due date.
func (s *PaymentService) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

// ListPendingForUser returns payments still awaiting settlement: stored
// PENDING rows (some of them logically overdue) plus stored OVERDUE rows,
// ordered by due date.
func (s *PaymentService) ListPendingForUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	pending, err := s.payments.ListByUserAndStatus(ctx, userID, domain.PaymentStatusPending)
	if err != nil {
		return nil, err
	}
	overdue, err := s.payments.ListByUserAndStatus(ctx, userID, domain.PaymentStatusOverdue)
	if err != nil {
		return nil, err
	}
	merged := append(pending, overdue...)
	sort.Slice(merged, func(i, j int) bool { return merged[i].DueDate.Before(merged[j].DueDate) })
	return merged, nil
}

// ListByLoan returns a loan's payments ordered by due date.
func (s *PaymentService) ListByLoan(ctx context.Context, loanID string) ([]domain.Payment, error) {
	return s.payments.ListByLoan(ctx, loanID)
}

// ListAll returns every payment.
func (s *PaymentService) ListAll(ctx context.Context) ([]domain.Payment, error) {
	return s.payments.ListAll(ctx)
}

func (s *PaymentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
