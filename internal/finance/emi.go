package finance

import (
	"github.com/shopspring/decimal"

	apperrors "github.com/loanworks/loan-service/pkg/util"
)

var monthsPerYearTimes100 = decimal.NewFromInt(1200)

// EMI computes the equated monthly installment for a reducing-balance loan:
//
//	r = annualRatePercent / 1200
//	emi = principal * r * (1+r)^n / ((1+r)^n - 1)
//
// rounded to 2 decimal places, half up. A zero rate makes the denominator
// zero, so rate and tenure are validated up front instead of propagating a
// division fault.
func EMI(principal, annualRatePercent decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, apperrors.NewInvalidArgument("principal must be positive", map[string]any{
			"principal": principal.String(),
		})
	}
	if tenureMonths <= 0 {
		return decimal.Decimal{}, apperrors.NewInvalidArgument("tenure must be a positive number of months", map[string]any{
			"tenureMonths": tenureMonths,
		})
	}
	if annualRatePercent.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, apperrors.NewInvalidArgument("interest rate must be positive", map[string]any{
			"annualRatePercent": annualRatePercent.String(),
		})
	}

	monthlyRate := annualRatePercent.DivRound(monthsPerYearTimes100, ratePrecision)
	factor := monthlyRate.Add(decimal.NewFromInt(1)).Pow(decimal.NewFromInt(int64(tenureMonths)))

	numerator := principal.Mul(monthlyRate).Mul(factor)
	denominator := factor.Sub(decimal.NewFromInt(1))
	return numerator.DivRound(denominator, 2), nil
}
