package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loanworks/loan-service/internal/domain"
)

// PaymentRepository encapsulates payment persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	Update(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Payment, error)
	ListByLoan(ctx context.Context, loanID string) ([]domain.Payment, error)
	ListByUserAndStatus(ctx context.Context, userID string, status domain.PaymentStatus) ([]domain.Payment, error)
	ListAll(ctx context.Context) ([]domain.Payment, error)
}

const paymentColumns = `id, loan_id, user_id, amount, due_date, paid_date, status`

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (loan_id, user_id, amount, due_date, paid_date, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		payment.LoanID,
		payment.UserID,
		payment.Amount,
		payment.DueDate,
		payment.PaidDate,
		payment.Status,
	).Scan(&payment.ID)
}

func (r *paymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	const query = `
        UPDATE payments SET amount=$1, due_date=$2, paid_date=$3, status=$4
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		payment.Amount,
		payment.DueDate,
		payment.PaidDate,
		payment.Status,
		payment.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	payments, err := scanPayments(rows)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &payments[0], nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id=$1 ORDER BY due_date`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *paymentRepository) ListByLoan(ctx context.Context, loanID string) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE loan_id=$1 ORDER BY due_date`, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *paymentRepository) ListByUserAndStatus(ctx context.Context, userID string, status domain.PaymentStatus) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id=$1 AND status=$2 ORDER BY due_date`,
		userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *paymentRepository) ListAll(ctx context.Context) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY due_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func scanPayments(rows pgx.Rows) ([]domain.Payment, error) {
	var result []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.LoanID,
			&payment.UserID,
			&payment.Amount,
			&payment.DueDate,
			&payment.PaidDate,
			&payment.Status,
		); err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}
