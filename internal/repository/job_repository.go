package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loanworks/loan-service/internal/domain"
)

// JobRepository encapsulates job-board persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	ListAll(ctx context.Context) ([]domain.Job, error)
	Delete(ctx context.Context, id string) error
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (title, company, location, salary, job_type, description, requirements)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		job.Title,
		job.Company,
		job.Location,
		job.Salary,
		job.Type,
		job.Description,
		job.Requirements,
	).Scan(&job.ID, &job.CreatedAt)
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	const query = `
        SELECT id, title, company, location, salary, job_type, description, requirements, created_at
        FROM jobs WHERE id=$1`

	var job domain.Job
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.Salary,
		&job.Type,
		&job.Description,
		&job.Requirements,
		&job.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) ListAll(ctx context.Context) ([]domain.Job, error) {
	const query = `
        SELECT id, title, company, location, salary, job_type, description, requirements, created_at
        FROM jobs ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID,
			&job.Title,
			&job.Company,
			&job.Location,
			&job.Salary,
			&job.Type,
			&job.Description,
			&job.Requirements,
			&job.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, rows.Err()
}

func (r *jobRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
