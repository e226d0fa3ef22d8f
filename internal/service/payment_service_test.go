package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/events"
	"github.com/loanworks/loan-service/internal/repository"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

func newPaymentFixture(t *testing.T) (*PaymentService, *domain.Loan) {
	t.Helper()
	mem := repository.NewMemory()
	dispatcher := events.NewInMemoryDispatcher()

	user := &domain.User{Email: "payer@example.com", Name: "Payer", Role: domain.RoleUser}
	require.NoError(t, mem.Users().Create(context.Background(), user))

	loans := NewLoanService(LoanDependencies{
		LoanRepo:   mem.Loans(),
		UserRepo:   mem.Users(),
		Dispatcher: dispatcher,
	})
	loan, err := loans.Apply(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	svc := NewPaymentService(PaymentDependencies{
		PaymentRepo: mem.Payments(),
		LoanRepo:    mem.Loans(),
		Dispatcher:  dispatcher,
	})
	return svc, loan
}

func TestCreatePaymentDenormalizesUser(t *testing.T) {
	svc, loan := newPaymentFixture(t)

	payment, err := svc.Create(context.Background(), PaymentInput{
		LoanID:  loan.ID,
		Amount:  decimal.RequireFromString("8884.88"),
		DueDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)
	require.Equal(t, loan.UserID, payment.UserID)
	require.Equal(t, domain.PaymentStatusPending, payment.Status)
	require.Nil(t, payment.PaidDate)
}

func TestCreatePaymentValidation(t *testing.T) {
	svc, loan := newPaymentFixture(t)

	_, err := svc.Create(context.Background(), PaymentInput{
		LoanID:  loan.ID,
		Amount:  decimal.Zero,
		DueDate: time.Now(),
	})
	require.True(t, apperrors.IsInvalidArgument(err))

	_, err = svc.Create(context.Background(), PaymentInput{
		LoanID:  "missing-loan",
		Amount:  decimal.NewFromInt(100),
		DueDate: time.Now(),
	})
	require.True(t, apperrors.IsNotFound(err))
}

func TestUpdateStatusPaidStampsPaidDate(t *testing.T) {
	svc, loan := newPaymentFixture(t)
	payment, err := svc.Create(context.Background(), PaymentInput{
		LoanID:  loan.ID,
		Amount:  decimal.NewFromInt(5000),
		DueDate: time.Now(),
	})
	require.NoError(t, err)

	paid, err := svc.UpdateStatus(context.Background(), payment.ID, "paid")
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidDate)
	require.Equal(t, time.Now().UTC().YearDay(), paid.PaidDate.YearDay())
}

func TestUpdateStatusAwayFromPaidClearsPaidDate(t *testing.T) {
	svc, loan := newPaymentFixture(t)
	payment, err := svc.Create(context.Background(), PaymentInput{
		LoanID:  loan.ID,
		Amount:  decimal.NewFromInt(5000),
		DueDate: time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.MarkPaid(context.Background(), payment.ID)
	require.NoError(t, err)

	reverted, err := svc.UpdateStatus(context.Background(), payment.ID, "PENDING")
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusPending, reverted.Status)
	require.Nil(t, reverted.PaidDate)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, loan := newPaymentFixture(t)
	payment, err := svc.Create(context.Background(), PaymentInput{
		LoanID:  loan.ID,
		Amount:  decimal.NewFromInt(5000),
		DueDate: time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), payment.ID, "settled")
	require.True(t, apperrors.IsInvalidArgument(err))

	_, err = svc.UpdateStatus(context.Background(), "missing-payment", "paid")
	require.True(t, apperrors.IsNotFound(err))
}

func TestListPendingForUserIncludesOverdue(t *testing.T) {
	svc, loan := newPaymentFixture(t)

	_, err := svc.Create(context.Background(), PaymentInput{
		LoanID:  loan.ID,
		Amount:  decimal.NewFromInt(5000),
		DueDate: time.Now().AddDate(0, 0, -10),
	})
	require.NoError(t, err)

	upcoming, err := svc.Create(context.Background(), PaymentInput{
		LoanID:  loan.ID,
		Amount:  decimal.NewFromInt(5000),
		DueDate: time.Now().AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	settled, err := svc.Create(context.Background(), PaymentInput{
		LoanID:  loan.ID,
		Amount:  decimal.NewFromInt(5000),
		DueDate: time.Now(),
	})
	require.NoError(t, err)
	_, err = svc.MarkPaid(context.Background(), settled.ID)
	require.NoError(t, err)

	pending, err := svc.ListPendingForUser(context.Background(), loan.UserID)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	// The stored status of the past-due payment stays PENDING; overdue is a
	// query-time classification.
	now := time.Now()
	require.True(t, pending[0].IsOverdue(now))
	require.Equal(t, domain.PaymentStatusPending, pending[0].Status)
	require.Equal(t, upcoming.ID, pending[1].ID)
	require.False(t, pending[1].IsOverdue(now))
}
