package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loanworks/loan-service/internal/config"
	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/repository"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            4,
		},
	}
	return NewAuthService(cfg, repository.NewMemory().Users())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	user, token, expiresAt, err := svc.Register(ctx, "Asha", "Asha@Example.com", "s3cret", "555-0100", domain.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())
	// Emails are normalized to lower case.
	require.Equal(t, "asha@example.com", user.Email)
	require.Equal(t, domain.RoleUser, user.Role)
	require.NotEqual(t, "s3cret", user.PasswordHash)

	logged, token, _, err := svc.Login(ctx, "ASHA@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, user.ID, logged.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, domain.RoleUser, claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Asha", "asha@example.com", "s3cret", "", domain.RoleUser)
	require.NoError(t, err)

	_, _, _, err = svc.Register(ctx, "Imposter", "asha@example.com", "other", "", domain.RoleUser)
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "CONFLICT", domainErr.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Asha", "asha@example.com", "s3cret", "", domain.RoleUser)
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "asha@example.com", "wrong")
	require.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)

	_, _, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	require.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}

func TestGetProfileNotFound(t *testing.T) {
	svc := newAuthFixture(t)
	_, err := svc.GetProfile(context.Background(), "missing")
	require.True(t, apperrors.IsNotFound(err))
}
