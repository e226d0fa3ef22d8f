package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/repository"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

func TestJobBoardCRUD(t *testing.T) {
	svc := NewJobService(repository.NewMemory().Jobs())
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.Job{
		Title:        "Loan Officer",
		Company:      "Acme Finance",
		Location:     "Remote",
		Salary:       "60k-80k",
		Type:         domain.JobTypeFullTime,
		Requirements: []string{"3y experience"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Loan Officer", fetched.Title)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	err = svc.Delete(ctx, created.ID)
	require.True(t, apperrors.IsNotFound(err))
}

func TestJobCreateValidation(t *testing.T) {
	svc := NewJobService(repository.NewMemory().Jobs())

	_, err := svc.Create(context.Background(), &domain.Job{Company: "Acme"})
	require.True(t, apperrors.IsInvalidArgument(err))

	_, err = svc.Create(context.Background(), &domain.Job{Title: "Analyst"})
	require.True(t, apperrors.IsInvalidArgument(err))
}
