package finance

import (
	"github.com/shopspring/decimal"

	"github.com/loanworks/loan-service/internal/domain"
)

// Sub-factor weights, in percent of the composite score.
var (
	weightPaymentHistory    = decimal.NewFromFloat(0.35)
	weightCreditUtilization = decimal.NewFromFloat(0.30)
	weightCreditAge         = decimal.NewFromFloat(0.15)
	weightCreditMix         = decimal.NewFromFloat(0.10)
	weightRecentInquiries   = decimal.NewFromFloat(0.10)
)

var (
	scoreFloor = decimal.NewFromInt(300)
	scoreBand  = decimal.NewFromInt(600)
	hundred    = decimal.NewFromInt(100)
)

// CibilScore folds the 0-100 sub-factors into a composite score on the
// 300-900 CIBIL scale.
func CibilScore(f domain.CibilFactors) int {
	weighted := decimal.NewFromInt(int64(f.PaymentHistory)).Mul(weightPaymentHistory).
		Add(decimal.NewFromInt(int64(f.CreditUtilization)).Mul(weightCreditUtilization)).
		Add(decimal.NewFromInt(int64(f.CreditAge)).Mul(weightCreditAge)).
		Add(decimal.NewFromInt(int64(f.CreditMix)).Mul(weightCreditMix)).
		Add(decimal.NewFromInt(int64(f.RecentInquiries)).Mul(weightRecentInquiries))

	score := scoreFloor.Add(weighted.Div(hundred).Mul(scoreBand)).Round(0)
	return int(score.IntPart())
}
