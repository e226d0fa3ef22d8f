package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/events"
	"github.com/loanworks/loan-service/internal/repository"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

func newCibilFixture(t *testing.T) (*CibilService, *domain.User) {
	t.Helper()
	mem := repository.NewMemory()
	user := &domain.User{Email: "scored@example.com", Name: "Scored", Role: domain.RoleUser}
	require.NoError(t, mem.Users().Create(context.Background(), user))

	svc := NewCibilService(CibilDependencies{
		CibilRepo:  mem.Cibil(),
		UserRepo:   mem.Users(),
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	return svc, user
}

func TestCibilNotFoundBeforeFirstComputation(t *testing.T) {
	svc, user := newCibilFixture(t)

	_, err := svc.GetByUser(context.Background(), user.ID)
	require.True(t, apperrors.IsNotFound(err))
}

func TestCibilUpsertCreatesThenOverwrites(t *testing.T) {
	svc, user := newCibilFixture(t)

	first, err := svc.Upsert(context.Background(), user.ID, domain.CibilFactors{
		PaymentHistory:    100,
		CreditUtilization: 100,
		CreditAge:         100,
		CreditMix:         100,
		RecentInquiries:   100,
	})
	require.NoError(t, err)
	require.Equal(t, 900, first.Score)

	second, err := svc.Upsert(context.Background(), user.ID, domain.CibilFactors{})
	require.NoError(t, err)
	require.Equal(t, 300, second.Score)
	// One record per user: the overwrite keeps the original id.
	require.Equal(t, first.ID, second.ID)

	stored, err := svc.GetByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 300, stored.Score)
	require.False(t, stored.LastUpdated.IsZero())
}

func TestCibilUpsertUnknownUser(t *testing.T) {
	svc, _ := newCibilFixture(t)

	_, err := svc.Upsert(context.Background(), "missing-user", domain.CibilFactors{})
	require.True(t, apperrors.IsNotFound(err))
}
