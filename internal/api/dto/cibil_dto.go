package dto

import (
	"time"

	"github.com/loanworks/loan-service/internal/domain"
)

// CibilFactorsRequest carries the five score factors, each 0-100.
type CibilFactorsRequest struct {
	PaymentHistory    int `json:"payment_history"`
	CreditUtilization int `json:"credit_utilization"`
	CreditAge         int `json:"credit_age"`
	CreditMix         int `json:"credit_mix"`
	RecentInquiries   int `json:"recent_inquiries"`
}

// ToFactors maps the request onto the domain factors.
func (r CibilFactorsRequest) ToFactors() domain.CibilFactors {
	return domain.CibilFactors{
		PaymentHistory:    r.PaymentHistory,
		CreditUtilization: r.CreditUtilization,
		CreditAge:         r.CreditAge,
		CreditMix:         r.CreditMix,
		RecentInquiries:   r.RecentInquiries,
	}
}

// CibilResponse is the public credit-score shape.
type CibilResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Score       int                 `json:"score"`
	LastUpdated time.Time           `json:"last_updated"`
	Factors     CibilFactorsRequest `json:"factors"`
}

// FromCibil maps a domain score onto the response shape.
func FromCibil(score *domain.CibilScore) CibilResponse {
	return CibilResponse{
		ID:          score.ID,
		UserID:      score.UserID,
		Score:       score.Score,
		LastUpdated: score.LastUpdated,
		Factors: CibilFactorsRequest{
			PaymentHistory:    score.Factors.PaymentHistory,
			CreditUtilization: score.Factors.CreditUtilization,
			CreditAge:         score.Factors.CreditAge,
			CreditMix:         score.Factors.CreditMix,
			RecentInquiries:   score.Factors.RecentInquiries,
		},
	}
}
