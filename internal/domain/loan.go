package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus enumerates lifecycle states for loans.
type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "PENDING"
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusRejected  LoanStatus = "REJECTED"
	LoanStatusCompleted LoanStatus = "COMPLETED"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
)

// ParseLoanStatus validates a status string case-insensitively.
func ParseLoanStatus(s string) (LoanStatus, bool) {
	switch LoanStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case LoanStatusPending:
		return LoanStatusPending, true
	case LoanStatusActive:
		return LoanStatusActive, true
	case LoanStatusRejected:
		return LoanStatusRejected, true
	case LoanStatusCompleted:
		return LoanStatusCompleted, true
	case LoanStatusDefaulted:
		return LoanStatusDefaulted, true
	}
	return "", false
}

// LoanType enumerates supported products.
type LoanType string

const (
	LoanTypePersonal  LoanType = "PERSONAL"
	LoanTypeHome      LoanType = "HOME"
	LoanTypeCar       LoanType = "CAR"
	LoanTypeEducation LoanType = "EDUCATION"
	LoanTypeBusiness  LoanType = "BUSINESS"
)

// ParseLoanType validates a product string case-insensitively.
func ParseLoanType(s string) (LoanType, bool) {
	switch LoanType(strings.ToUpper(strings.TrimSpace(s))) {
	case LoanTypePersonal:
		return LoanTypePersonal, true
	case LoanTypeHome:
		return LoanTypeHome, true
	case LoanTypeCar:
		return LoanTypeCar, true
	case LoanTypeEducation:
		return LoanTypeEducation, true
	case LoanTypeBusiness:
		return LoanTypeBusiness, true
	}
	return "", false
}

// Loan is the aggregate for a credit extension.
//
// StartDate is the application date while the loan is PENDING and is
// restamped to the decision date on the first transition into ACTIVE:
// application and disbursement are different concepts.
type Loan struct {
	ID                 string
	UserID             string
	LoanType           LoanType
	Principal          decimal.Decimal
	InterestRate       decimal.Decimal
	TenureMonths       int
	StartDate          time.Time
	EMI                decimal.Decimal
	Status             LoanStatus
	OutstandingBalance decimal.Decimal
	RejectionReason    *string
	UploadedFileName   *string
	UploadedFilePath   *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
