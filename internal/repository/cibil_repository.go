package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loanworks/loan-service/internal/domain"
)

// CibilRepository encapsulates credit-score persistence. One record per
// user, enforced by the unique user_id constraint.
type CibilRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.CibilScore, error)
	Save(ctx context.Context, score *domain.CibilScore) error
}

type cibilRepository struct {
	pool *pgxpool.Pool
}

// NewCibilRepository instantiates repository.
func NewCibilRepository(pool *pgxpool.Pool) CibilRepository {
	return &cibilRepository{pool: pool}
}

func (r *cibilRepository) GetByUserID(ctx context.Context, userID string) (*domain.CibilScore, error) {
	const query = `
        SELECT id, user_id, score, last_updated, payment_history, credit_utilization,
               credit_age, credit_mix, recent_inquiries
        FROM cibil_scores WHERE user_id=$1`

	var score domain.CibilScore
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&score.ID,
		&score.UserID,
		&score.Score,
		&score.LastUpdated,
		&score.Factors.PaymentHistory,
		&score.Factors.CreditUtilization,
		&score.Factors.CreditAge,
		&score.Factors.CreditMix,
		&score.Factors.RecentInquiries,
	); err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *cibilRepository) Save(ctx context.Context, score *domain.CibilScore) error {
	const query = `
        INSERT INTO cibil_scores (user_id, score, last_updated, payment_history,
                                  credit_utilization, credit_age, credit_mix, recent_inquiries)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (user_id) DO UPDATE SET
            score=EXCLUDED.score,
            last_updated=EXCLUDED.last_updated,
            payment_history=EXCLUDED.payment_history,
            credit_utilization=EXCLUDED.credit_utilization,
            credit_age=EXCLUDED.credit_age,
            credit_mix=EXCLUDED.credit_mix,
            recent_inquiries=EXCLUDED.recent_inquiries
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		score.UserID,
		score.Score,
		score.LastUpdated,
		score.Factors.PaymentHistory,
		score.Factors.CreditUtilization,
		score.Factors.CreditAge,
		score.Factors.CreditMix,
		score.Factors.RecentInquiries,
	).Scan(&score.ID)
}
