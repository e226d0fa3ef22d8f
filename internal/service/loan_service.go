package service

import (
	"context"
	"errors"
	"strings"
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

// LoanService coordinates the loan lifecycle: application, underwriting
// decisions, partial updates and removal.
type LoanService struct {
	loans      repository.LoanRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// LoanDependencies bundles repositories for the loan service.
type LoanDependencies struct {
	LoanRepo   repository.LoanRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// LoanApplication describes a loan application payload.
type LoanApplication struct {
	LoanType     domain.LoanType
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	TenureMonths int
	// EMI overrides the derived installment when supplied.
	EMI              *decimal.Decimal
	UploadedFileName *string
	UploadedFilePath *string
}

// LoanPatch carries partial-update fields. Only non-nil fields overwrite
// the stored loan; a nil pointer means "leave untouched", never "clear".
type LoanPatch struct {
	Status             *domain.LoanStatus
	OutstandingBalance *decimal.Decimal
	RejectionReason    *string
	UploadedFileName   *string
	UploadedFilePath   *string
}

// DecisionDocument is an optional supporting-document reference recorded
// together with an underwriting decision.
type DecisionDocument struct {
	FileName string
	FilePath string
}

// NewLoanService constructs the service.
func NewLoanService(deps LoanDependencies) *LoanService {
	return &LoanService{
		loans:      deps.LoanRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Apply creates a loan in PENDING state for the given user. The start date
// is stamped with the application date and the outstanding balance opens at
// the full principal. The EMI is derived unless the application supplies one.
func (s *LoanService) Apply(ctx context.Context, userID string, input LoanApplication) (*domain.Loan, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, err
	}

	if input.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewInvalidArgument("principal must be positive", nil)
	}
	if input.InterestRate.IsNegative() {
		return nil, apperrors.NewInvalidArgument("interest rate must not be negative", nil)
	}
	if input.TenureMonths <= 0 {
		return nil, apperrors.NewInvalidArgument("tenure must be a positive number of months", nil)
	}

	principal := finance.RoundMoney(input.Principal)

	var emi decimal.Decimal
	if input.EMI != nil {
		if input.EMI.LessThanOrEqual(decimal.Zero) {
			return nil, apperrors.NewInvalidArgument("emi must be positive", nil)
		}
		emi = finance.RoundMoney(*input.EMI)
	} else {
		emi, err = finance.EMI(principal, input.InterestRate, input.TenureMonths)
		if err != nil {
			return nil, err
		}
	}

	loan := &domain.Loan{
		UserID:             user.ID,
		LoanType:           input.LoanType,
		Principal:          principal,
		InterestRate:       input.InterestRate,
		TenureMonths:       input.TenureMonths,
		StartDate:          today(),
		EMI:                emi,
		Status:             domain.LoanStatusPending,
		OutstandingBalance: principal,
		UploadedFileName:   input.UploadedFileName,
		UploadedFilePath:   input.UploadedFilePath,
	}

	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventLoanApplied,
		UserID: loan.UserID,
		Payload: events.LoanAppliedPayload{
			LoanID:    loan.ID,
			LoanType:  loan.LoanType,
			Principal: loan.Principal.StringFixed(2),
			EMI:       loan.EMI.StringFixed(2),
		},
	})
	return loan, nil
}

// Decide applies an underwriting decision. "approve" (or "accept") moves
// the loan to ACTIVE, clears any rejection reason and restamps the start
// date with the decision date; "reject" moves it to REJECTED and stores the
// reason verbatim. Any other action fails and leaves the loan unmodified.
// The whole decision is a single row update.
func (s *LoanService) Decide(ctx context.Context, loanID, action string, reason *string, doc *DecisionDocument) (*domain.Loan, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(action)) {
	case "approve", "accept":
		if loan.Status != domain.LoanStatusActive {
			loan.StartDate = today()
		}
		loan.Status = domain.LoanStatusActive
		loan.RejectionReason = nil
	case "reject":
		loan.Status = domain.LoanStatusRejected
		loan.RejectionReason = reason
	default:
		return nil, apperrors.NewInvalidArgument("invalid action; use 'approve' or 'reject'", map[string]any{
			"action": action,
		})
	}

	if doc != nil {
		loan.UploadedFileName = &doc.FileName
		loan.UploadedFilePath = &doc.FilePath
	}

	if err := s.loans.Update(ctx, loan); err != nil {
		return nil, err
	}

	eventType := events.EventLoanApproved
	if loan.Status == domain.LoanStatusRejected {
		eventType = events.EventLoanRejected
	}
	s.publishEvent(ctx, events.Event{
		Type:   eventType,
		UserID: loan.UserID,
		Payload: events.LoanDecidedPayload{
			LoanID:          loan.ID,
			NewStatus:       loan.Status,
			RejectionReason: loan.RejectionReason,
		},
	})
	return loan, nil
}

// Update applies a partial update. Supplying a status that transitions the
// loan into ACTIVE restamps the start date with today, the same rule the
// decision path uses.
func (s *LoanService) Update(ctx context.Context, loanID string, patch LoanPatch) (*domain.Loan, error) {
	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		if *patch.Status == domain.LoanStatusActive && loan.Status != domain.LoanStatusActive {
			loan.StartDate = today()
		}
		loan.Status = *patch.Status
	}
	if patch.OutstandingBalance != nil {
		if patch.OutstandingBalance.IsNegative() {
			return nil, apperrors.NewInvalidArgument("outstanding balance must not be negative", nil)
		}
		balance := finance.RoundMoney(*patch.OutstandingBalance)
		loan.OutstandingBalance = balance
	}
	if patch.RejectionReason != nil {
		loan.RejectionReason = patch.RejectionReason
	}
	if patch.UploadedFileName != nil {
		loan.UploadedFileName = patch.UploadedFileName
	}
	if patch.UploadedFilePath != nil {
		loan.UploadedFilePath = patch.UploadedFilePath
	}

	if err := s.loans.Update(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// Delete removes a loan. It is idempotent: deleting an id that no longer
// exists is a no-op. Payments referencing the loan are left in place; see
// DESIGN.md for the cascade decision.
func (s *LoanService) Delete(ctx context.Context, loanID string) error {
	return s.loans.Delete(ctx, loanID)
}

// GetByID fetches one loan.
func (s *LoanService) GetByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.getLoan(ctx, loanID)
}

// ListByUser returns a user's loans, newest first.
func (s *LoanService) ListByUser(ctx context.Context, userID string) ([]domain.Loan, error) {
	return s.loans.ListByUser(ctx, userID)
}

// ListAll returns every loan, newest first.
func (s *LoanService) ListAll(ctx context.Context) ([]domain.Loan, error) {
	return s.loans.ListAll(ctx)
}

func (s *LoanService) getLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("loan", map[string]any{"loan_id": loanID})
		}
		return nil, err
	}
	return loan, nil
}

func (s *LoanService) publishEvent(ctx context.Context, event events.Event) {
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

// today returns the current date truncated to day granularity.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
