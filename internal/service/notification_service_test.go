package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/events"
	"github.com/loanworks/loan-service/internal/repository"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

func newNotificationFixture(t *testing.T) (*NotificationService, *LoanService, *domain.User, *repository.Memory) {
	t.Helper()
	mem := repository.NewMemory()
	dispatcher := events.NewInMemoryDispatcher()

	notifications := NewNotificationService(mem.Notifications(), dispatcher, zap.NewNop())
	notifications.RegisterHandlers()

	user := &domain.User{Email: "notified@example.com", Name: "Notified", Role: domain.RoleUser}
	require.NoError(t, mem.Users().Create(context.Background(), user))

	loans := NewLoanService(LoanDependencies{
		LoanRepo:   mem.Loans(),
		UserRepo:   mem.Users(),
		Dispatcher: dispatcher,
	})
	return notifications, loans, user, mem
}

func TestLoanLifecycleEmitsNotifications(t *testing.T) {
	notifications, loans, user, _ := newNotificationFixture(t)
	ctx := context.Background()

	loan, err := loans.Apply(ctx, user.ID, validApplication())
	require.NoError(t, err)

	reason := "insufficient income"
	_, err = loans.Decide(ctx, loan.ID, "reject", &reason, nil)
	require.NoError(t, err)

	_, err = loans.Decide(ctx, loan.ID, "approve", nil, nil)
	require.NoError(t, err)

	list, err := notifications.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	types := make(map[domain.NotificationType]int)
	for _, n := range list {
		types[n.Type]++
		require.False(t, n.Read)
	}
	require.Equal(t, 1, types[domain.NotificationLoanApplied])
	require.Equal(t, 1, types[domain.NotificationLoanRejected])
	require.Equal(t, 1, types[domain.NotificationLoanApproved])
}

func TestRejectionNotificationCarriesReason(t *testing.T) {
	notifications, loans, user, _ := newNotificationFixture(t)
	ctx := context.Background()

	loan, err := loans.Apply(ctx, user.ID, validApplication())
	require.NoError(t, err)

	reason := "insufficient income"
	_, err = loans.Decide(ctx, loan.ID, "reject", &reason, nil)
	require.NoError(t, err)

	list, err := notifications.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	var found bool
	for _, n := range list {
		if n.Type == domain.NotificationLoanRejected {
			found = true
			require.Contains(t, n.Message, reason)
		}
	}
	require.True(t, found)
}

func TestPaymentPaidNotification(t *testing.T) {
	notifications, loans, user, mem := newNotificationFixture(t)
	ctx := context.Background()

	loan, err := loans.Apply(ctx, user.ID, validApplication())
	require.NoError(t, err)

	payments := NewPaymentService(PaymentDependencies{
		PaymentRepo: mem.Payments(),
		LoanRepo:    mem.Loans(),
		Dispatcher:  loans.dispatcher,
	})
	payment, err := payments.Create(ctx, PaymentInput{
		LoanID:  loan.ID,
		Amount:  decimal.NewFromInt(5000),
		DueDate: loan.StartDate,
	})
	require.NoError(t, err)

	_, err = payments.MarkPaid(ctx, payment.ID)
	require.NoError(t, err)

	list, err := notifications.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	var found bool
	for _, n := range list {
		if n.Message == "Payment of 5000.00 recorded" {
			found = true
		}
	}
	require.True(t, found)
}

func TestMarkReadAndDelete(t *testing.T) {
	notifications, _, user, _ := newNotificationFixture(t)
	ctx := context.Background()

	created, err := notifications.Create(ctx, user.ID, domain.NotificationCibilUpdate, "score refreshed")
	require.NoError(t, err)
	require.False(t, created.Read)

	read, err := notifications.MarkRead(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, read.Read)

	_, err = notifications.MarkRead(ctx, "missing")
	require.True(t, apperrors.IsNotFound(err))

	require.NoError(t, notifications.Delete(ctx, created.ID))
	list, err := notifications.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}
