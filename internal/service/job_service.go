package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/repository"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

// JobService exposes the job-board listings.
type JobService struct {
	jobs repository.JobRepository
}

// NewJobService constructs the service.
func NewJobService(jobs repository.JobRepository) *JobService {
	return &JobService{jobs: jobs}
}

// ListAll returns all listings, newest first.
func (s *JobService) ListAll(ctx context.Context) ([]domain.Job, error) {
	return s.jobs.ListAll(ctx)
}

// GetByID fetches one listing.
func (s *JobService) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("job", map[string]any{"job_id": id})
		}
		return nil, err
	}
	return job, nil
}

// Create stores a listing.
func (s *JobService) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	if job.Title == "" || job.Company == "" {
		return nil, apperrors.NewInvalidArgument("title and company required", nil)
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// Delete removes a listing.
func (s *JobService) Delete(ctx context.Context, id string) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("job", map[string]any{"job_id": id})
		}
		return err
	}
	return nil
}
