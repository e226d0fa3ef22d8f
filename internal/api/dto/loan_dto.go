package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanworks/loan-service/internal/domain"
)

// LoanApplyRequest payload. Monetary fields travel as decimal strings.
type LoanApplyRequest struct {
	UserID       string  `json:"user_id"`
	LoanType     string  `json:"loan_type"`
	Principal    string  `json:"principal"`
	InterestRate string  `json:"interest_rate"`
	TenureMonths int     `json:"tenure_months"`
	EMI          *string `json:"emi"`
	FileName     *string `json:"file_name"`
	FilePath     *string `json:"file_path"`
}

// LoanUpdateRequest is a partial update; absent fields stay untouched.
type LoanUpdateRequest struct {
	Status             *string `json:"status"`
	OutstandingBalance *string `json:"outstanding_balance"`
	RejectionReason    *string `json:"rejection_reason"`
	FileName           *string `json:"file_name"`
	FilePath           *string `json:"file_path"`
}

// LoanDecisionRequest carries an underwriting decision.
type LoanDecisionRequest struct {
	Action          string  `json:"action"`
	RejectionReason *string `json:"rejection_reason"`
	FileName        *string `json:"file_name"`
	FilePath        *string `json:"file_path"`
}

// LoanResponse is the public loan shape.
type LoanResponse struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"user_id"`
	LoanType           string          `json:"loan_type"`
	Principal          decimal.Decimal `json:"principal"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	TenureMonths       int             `json:"tenure_months"`
	StartDate          time.Time       `json:"start_date"`
	EMI                decimal.Decimal `json:"emi"`
	Status             string          `json:"status"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	RejectionReason    *string         `json:"rejection_reason,omitempty"`
	FileName           *string         `json:"file_name,omitempty"`
	FilePath           *string         `json:"file_path,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// FromLoan maps a domain loan onto the response shape.
func FromLoan(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:                 loan.ID,
		UserID:             loan.UserID,
		LoanType:           string(loan.LoanType),
		Principal:          loan.Principal,
		InterestRate:       loan.InterestRate,
		TenureMonths:       loan.TenureMonths,
		StartDate:          loan.StartDate,
		EMI:                loan.EMI,
		Status:             string(loan.Status),
		OutstandingBalance: loan.OutstandingBalance,
		RejectionReason:    loan.RejectionReason,
		FileName:           loan.UploadedFileName,
		FilePath:           loan.UploadedFilePath,
		CreatedAt:          loan.CreatedAt,
		UpdatedAt:          loan.UpdatedAt,
	}
}

// FromLoans maps a slice of loans.
func FromLoans(loans []domain.Loan) []LoanResponse {
	out := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		out = append(out, FromLoan(&loans[i]))
	}
	return out
}
