package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/events"
	"github.com/loanworks/loan-service/internal/finance"
	"github.com/loanworks/loan-service/internal/repository"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

// CibilService maintains the per-user credit-score record. A record is
// created on first computation and updated thereafter; registration never
// creates one.
type CibilService struct {
	scores     repository.CibilRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// CibilDependencies bundles repositories for the cibil service.
type CibilDependencies struct {
	CibilRepo  repository.CibilRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewCibilService constructs the service.
func NewCibilService(deps CibilDependencies) *CibilService {
	return &CibilService{
		scores:     deps.CibilRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// GetByUser returns the user's score record.
func (s *CibilService) GetByUser(ctx context.Context, userID string) (*domain.CibilScore, error) {
	score, err := s.scores.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("cibil score", map[string]any{"user_id": userID})
		}
		return nil, err
	}
	return score, nil
}

// Upsert recomputes the composite score from the sub-factors and stores
// it, creating the record on first write.
func (s *CibilService) Upsert(ctx context.Context, userID string, factors domain.CibilFactors) (*domain.CibilScore, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, err
	}

	score := &domain.CibilScore{
		UserID:      userID,
		Score:       finance.CibilScore(factors),
		LastUpdated: time.Now(),
		Factors:     factors,
	}
	if err := s.scores.Save(ctx, score); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCibilUpdated,
			UserID:    userID,
			Timestamp: time.Now(),
			Payload:   events.CibilUpdatedPayload{Score: score.Score},
		})
	}
	return score, nil
}
