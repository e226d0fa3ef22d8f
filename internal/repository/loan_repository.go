package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loanworks/loan-service/internal/domain"
)

// LoanRepository encapsulates loan persistence.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	Update(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Loan, error)
	ListAll(ctx context.Context) ([]domain.Loan, error)
	// Delete removes a loan. Deleting an absent id is a no-op so the
	// operation stays safe to retry.
	Delete(ctx context.Context, id string) error
}

const loanColumns = `id, user_id, loan_type, principal, interest_rate, tenure_months,
               start_date, emi, status, outstanding_balance, rejection_reason,
               uploaded_file_name, uploaded_file_path, created_at, updated_at`

type loanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository instantiates repository.
func NewLoanRepository(pool *pgxpool.Pool) LoanRepository {
	return &loanRepository{pool: pool}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	const query = `
        INSERT INTO loans (user_id, loan_type, principal, interest_rate, tenure_months,
                           start_date, emi, status, outstanding_balance, rejection_reason,
                           uploaded_file_name, uploaded_file_path)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		loan.UserID,
		loan.LoanType,
		loan.Principal,
		loan.InterestRate,
		loan.TenureMonths,
		loan.StartDate,
		loan.EMI,
		loan.Status,
		loan.OutstandingBalance,
		loan.RejectionReason,
		loan.UploadedFileName,
		loan.UploadedFilePath,
	).Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	const query = `
        UPDATE loans SET loan_type=$1, principal=$2, interest_rate=$3, tenure_months=$4,
            start_date=$5, emi=$6, status=$7, outstanding_balance=$8, rejection_reason=$9,
            uploaded_file_name=$10, uploaded_file_path=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		loan.LoanType,
		loan.Principal,
		loan.InterestRate,
		loan.TenureMonths,
		loan.StartDate,
		loan.EMI,
		loan.Status,
		loan.OutstandingBalance,
		loan.RejectionReason,
		loan.UploadedFileName,
		loan.UploadedFilePath,
		loan.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+loanColumns+` FROM loans WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	loans, err := scanLoans(rows)
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &loans[0], nil
}

func (r *loanRepository) ListByUser(ctx context.Context, userID string) ([]domain.Loan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

func (r *loanRepository) ListAll(ctx context.Context) ([]domain.Loan, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+loanColumns+` FROM loans ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

func (r *loanRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM loans WHERE id=$1`, id)
	return err
}

func scanLoans(rows pgx.Rows) ([]domain.Loan, error) {
	var result []domain.Loan
	for rows.Next() {
		var loan domain.Loan
		if err := rows.Scan(
			&loan.ID,
			&loan.UserID,
			&loan.LoanType,
			&loan.Principal,
			&loan.InterestRate,
			&loan.TenureMonths,
			&loan.StartDate,
			&loan.EMI,
			&loan.Status,
			&loan.OutstandingBalance,
			&loan.RejectionReason,
			&loan.UploadedFileName,
			&loan.UploadedFilePath,
			&loan.CreatedAt,
			&loan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, loan)
	}
	return result, rows.Err()
}
