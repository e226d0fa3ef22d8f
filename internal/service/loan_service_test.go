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

func newLoanFixture(t *testing.T) (*LoanService, *repository.Memory, *domain.User) {
	t.Helper()
	mem := repository.NewMemory()
	user := &domain.User{Email: "borrower@example.com", Name: "Borrower", Role: domain.RoleUser}
	require.NoError(t, mem.Users().Create(context.Background(), user))

	svc := NewLoanService(LoanDependencies{
		LoanRepo:   mem.Loans(),
		UserRepo:   mem.Users(),
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	return svc, mem, user
}

func validApplication() LoanApplication {
	return LoanApplication{
		LoanType:     domain.LoanTypePersonal,
		Principal:    decimal.NewFromInt(100000),
		InterestRate: decimal.NewFromInt(12),
		TenureMonths: 12,
	}
}

func TestApplyCreatesPendingLoan(t *testing.T) {
	svc, _, user := newLoanFixture(t)

	loan, err := svc.Apply(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	require.Equal(t, domain.LoanStatusPending, loan.Status)
	require.True(t, loan.OutstandingBalance.Equal(loan.Principal))
	require.Nil(t, loan.RejectionReason)
	require.Equal(t, "8884.88", loan.EMI.StringFixed(2))

	now := time.Now().UTC()
	require.Equal(t, now.Year(), loan.StartDate.Year())
	require.Equal(t, now.YearDay(), loan.StartDate.YearDay())
}

func TestApplyHonorsSuppliedEMI(t *testing.T) {
	svc, _, user := newLoanFixture(t)

	override := decimal.RequireFromString("9000.00")
	input := validApplication()
	input.EMI = &override

	loan, err := svc.Apply(context.Background(), user.ID, input)
	require.NoError(t, err)
	require.Equal(t, "9000.00", loan.EMI.StringFixed(2))
}

func TestApplyUnknownUser(t *testing.T) {
	svc, _, _ := newLoanFixture(t)

	_, err := svc.Apply(context.Background(), "missing-user", validApplication())
	require.Error(t, err)
	require.True(t, apperrors.IsNotFound(err))
}

func TestApplyValidation(t *testing.T) {
	svc, _, user := newLoanFixture(t)

	bad := validApplication()
	bad.Principal = decimal.Zero
	_, err := svc.Apply(context.Background(), user.ID, bad)
	require.True(t, apperrors.IsInvalidArgument(err))

	bad = validApplication()
	bad.TenureMonths = 0
	_, err = svc.Apply(context.Background(), user.ID, bad)
	require.True(t, apperrors.IsInvalidArgument(err))

	// Zero rate with no EMI override cannot derive an installment.
	bad = validApplication()
	bad.InterestRate = decimal.Zero
	_, err = svc.Apply(context.Background(), user.ID, bad)
	require.True(t, apperrors.IsInvalidArgument(err))
}

func TestDecideApprove(t *testing.T) {
	svc, _, user := newLoanFixture(t)
	loan, err := svc.Apply(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	reason := "needs review"
	_, err = svc.Decide(context.Background(), loan.ID, "reject", &reason, nil)
	require.NoError(t, err)

	// Approval is case-insensitive, clears the reason and restamps the
	// start date with the decision date.
	decided, err := svc.Decide(context.Background(), loan.ID, "APPROVE", nil, nil)
	require.NoError(t, err)
	require.Equal(t, domain.LoanStatusActive, decided.Status)
	require.Nil(t, decided.RejectionReason)
	require.Equal(t, time.Now().UTC().YearDay(), decided.StartDate.YearDay())
}

func TestDecideAcceptAlias(t *testing.T) {
	svc, _, user := newLoanFixture(t)
	loan, err := svc.Apply(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), loan.ID, "accept", nil, nil)
	require.NoError(t, err)
	require.Equal(t, domain.LoanStatusActive, decided.Status)
}

func TestDecideReject(t *testing.T) {
	svc, _, user := newLoanFixture(t)
	loan, err := svc.Apply(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	reason := "income not verified"
	decided, err := svc.Decide(context.Background(), loan.ID, "reject", &reason, nil)
	require.NoError(t, err)
	require.Equal(t, domain.LoanStatusRejected, decided.Status)
	require.NotNil(t, decided.RejectionReason)
	require.Equal(t, reason, *decided.RejectionReason)
}

func TestDecideUnknownActionLeavesLoanUntouched(t *testing.T) {
	svc, _, user := newLoanFixture(t)
	loan, err := svc.Apply(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), loan.ID, "escalate", nil, nil)
	require.True(t, apperrors.IsInvalidArgument(err))

	stored, err := svc.GetByID(context.Background(), loan.ID)
	require.NoError(t, err)
	require.Equal(t, domain.LoanStatusPending, stored.Status)
}

func TestDecideUnknownLoan(t *testing.T) {
	svc, _, _ := newLoanFixture(t)
	_, err := svc.Decide(context.Background(), "missing", "approve", nil, nil)
	require.True(t, apperrors.IsNotFound(err))
}

func TestDecideRecordsDocument(t *testing.T) {
	svc, _, user := newLoanFixture(t)
	loan, err := svc.Apply(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	doc := &DecisionDocument{FileName: "sanction.pdf", FilePath: "/docs/sanction.pdf"}
	decided, err := svc.Decide(context.Background(), loan.ID, "approve", nil, doc)
	require.NoError(t, err)
	require.NotNil(t, decided.UploadedFileName)
	require.Equal(t, "sanction.pdf", *decided.UploadedFileName)
	require.NotNil(t, decided.UploadedFilePath)
	require.Equal(t, "/docs/sanction.pdf", *decided.UploadedFilePath)
}

func TestUpdatePatchSemantics(t *testing.T) {
	svc, _, user := newLoanFixture(t)
	loan, err := svc.Apply(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	balance := decimal.RequireFromString("50000.00")
	updated, err := svc.Update(context.Background(), loan.ID, LoanPatch{OutstandingBalance: &balance})
	require.NoError(t, err)
	require.Equal(t, "50000.00", updated.OutstandingBalance.StringFixed(2))
	// Untouched fields survive the patch.
	require.Equal(t, domain.LoanStatusPending, updated.Status)
	require.True(t, updated.Principal.Equal(loan.Principal))

	negative := decimal.NewFromInt(-1)
	_, err = svc.Update(context.Background(), loan.ID, LoanPatch{OutstandingBalance: &negative})
	require.True(t, apperrors.IsInvalidArgument(err))
}

func TestUpdateIntoActiveRestampsStartDate(t *testing.T) {
	svc, _, user := newLoanFixture(t)
	loan, err := svc.Apply(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	active := domain.LoanStatusActive
	updated, err := svc.Update(context.Background(), loan.ID, LoanPatch{Status: &active})
	require.NoError(t, err)
	require.Equal(t, domain.LoanStatusActive, updated.Status)
	require.Equal(t, time.Now().UTC().YearDay(), updated.StartDate.YearDay())
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc, _, user := newLoanFixture(t)
	loan, err := svc.Apply(context.Background(), user.ID, validApplication())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), loan.ID))
	require.NoError(t, svc.Delete(context.Background(), loan.ID))

	_, err = svc.GetByID(context.Background(), loan.ID)
	require.True(t, apperrors.IsNotFound(err))
}

func TestListByUser(t *testing.T) {
	svc, mem, user := newLoanFixture(t)

	other := &domain.User{Email: "other@example.com", Name: "Other", Role: domain.RoleUser}
	require.NoError(t, mem.Users().Create(context.Background(), other))

	_, err := svc.Apply(context.Background(), user.ID, validApplication())
	require.NoError(t, err)
	_, err = svc.Apply(context.Background(), other.ID, validApplication())
	require.NoError(t, err)

	mine, err := svc.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, user.ID, mine[0].UserID)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
}
