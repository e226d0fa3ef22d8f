package finance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/loanworks/loan-service/internal/domain"
	apperrors "github.com/loanworks/loan-service/pkg/util"
)

func TestEMIReferenceValue(t *testing.T) {
	emi, err := EMI(decimal.NewFromInt(100000), decimal.NewFromInt(12), 12)
	require.NoError(t, err)
	require.Equal(t, "8884.88", emi.StringFixed(2))
}

func TestEMIKnownValues(t *testing.T) {
	cases := []struct {
		name      string
		principal int64
		rate      string
		tenure    int
		want      string
	}{
		{"one month", 1000, "12", 1, "1010.00"},
		{"two months", 1000, "12", 2, "507.51"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate, err := decimal.NewFromString(tc.rate)
			require.NoError(t, err)
			emi, err := EMI(decimal.NewFromInt(tc.principal), rate, tc.tenure)
			require.NoError(t, err)
			require.Equal(t, tc.want, emi.StringFixed(2))
		})
	}
}

func TestEMIRejectsDegenerateInputs(t *testing.T) {
	cases := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		tenure    int
	}{
		{"zero principal", decimal.Zero, decimal.NewFromInt(12), 12},
		{"negative principal", decimal.NewFromInt(-5), decimal.NewFromInt(12), 12},
		{"zero tenure", decimal.NewFromInt(100000), decimal.NewFromInt(12), 0},
		{"negative tenure", decimal.NewFromInt(100000), decimal.NewFromInt(12), -3},
		{"zero rate", decimal.NewFromInt(100000), decimal.Zero, 12},
		{"negative rate", decimal.NewFromInt(100000), decimal.NewFromInt(-1), 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EMI(tc.principal, tc.rate, tc.tenure)
			require.Error(t, err)
			require.True(t, apperrors.IsInvalidArgument(err))
		})
	}
}

func TestCibilScoreBounds(t *testing.T) {
	floor := CibilScore(domain.CibilFactors{})
	require.Equal(t, 300, floor)

	ceiling := CibilScore(domain.CibilFactors{
		PaymentHistory:    100,
		CreditUtilization: 100,
		CreditAge:         100,
		CreditMix:         100,
		RecentInquiries:   100,
	})
	require.Equal(t, 900, ceiling)
}

func TestCibilScoreWeighting(t *testing.T) {
	// Payment history carries 35% of the band: 100*0.35/100*600 = 210.
	score := CibilScore(domain.CibilFactors{PaymentHistory: 100})
	require.Equal(t, 510, score)

	// 80/70/60/50/40 -> weighted 67 -> 300 + 402 = 702.
	score = CibilScore(domain.CibilFactors{
		PaymentHistory:    80,
		CreditUtilization: 70,
		CreditAge:         60,
		CreditMix:         50,
		RecentInquiries:   40,
	})
	require.Equal(t, 702, score)
}

func TestRoundMoney(t *testing.T) {
	d := decimal.RequireFromString("10.005")
	require.Equal(t, "10.01", RoundMoney(d).StringFixed(2))

	d = decimal.RequireFromString("10.004")
	require.Equal(t, "10.00", RoundMoney(d).StringFixed(2))
}
