package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/repository"
)

func newReportingFixture(t *testing.T) (*ReportingService, *repository.Memory) {
	t.Helper()
	mem := repository.NewMemory()
	svc := NewReportingService(ReportingDependencies{
		UserRepo:         mem.Users(),
		LoanRepo:         mem.Loans(),
		PaymentRepo:      mem.Payments(),
		NotificationRepo: mem.Notifications(),
	})
	return svc, mem
}

func seedLoan(t *testing.T, mem *repository.Memory, loanType domain.LoanType, status domain.LoanStatus, principal int64, start time.Time) *domain.Loan {
	t.Helper()
	loan := &domain.Loan{
		UserID:             "user-1",
		LoanType:           loanType,
		Principal:          decimal.NewFromInt(principal),
		InterestRate:       decimal.NewFromInt(12),
		TenureMonths:       12,
		StartDate:          start,
		EMI:                decimal.NewFromInt(1),
		Status:             status,
		OutstandingBalance: decimal.NewFromInt(principal),
	}
	require.NoError(t, mem.Loans().Create(context.Background(), loan))
	return loan
}

func TestDashboardStatsCounters(t *testing.T) {
	svc, mem := newReportingFixture(t)
	ctx := context.Background()
	now := time.Now()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		require.NoError(t, mem.Users().Create(ctx, &domain.User{Email: email, Name: email, Role: domain.RoleUser}))
	}

	seedLoan(t, mem, domain.LoanTypePersonal, domain.LoanStatusActive, 100000, now)
	seedLoan(t, mem, domain.LoanTypeHome, domain.LoanStatusPending, 200000, now)
	seedLoan(t, mem, domain.LoanTypeCar, domain.LoanStatusRejected, 300000, now)
	seedLoan(t, mem, domain.LoanTypeCar, domain.LoanStatusDefaulted, 400000, now)
	seedLoan(t, mem, domain.LoanTypePersonal, domain.LoanStatusCompleted, 500000, now)

	for _, status := range []domain.PaymentStatus{domain.PaymentStatusPending, domain.PaymentStatusOverdue, domain.PaymentStatusPaid} {
		payment := &domain.Payment{LoanID: "loan-x", UserID: "user-1", Amount: decimal.NewFromInt(100), DueDate: now, Status: status}
		if status == domain.PaymentStatusPaid {
			paidAt := now
			payment.PaidDate = &paidAt
		}
		require.NoError(t, mem.Payments().Create(ctx, payment))
	}

	stats, err := svc.DashboardStats(ctx)
	require.NoError(t, err)

	require.Equal(t, 2, stats.TotalUsers)
	require.Equal(t, 5, stats.TotalLoans)
	require.Equal(t, 1, stats.ActiveLoans)
	require.Equal(t, 1, stats.PendingLoans)
	// Rejected bucket folds in defaulted loans.
	require.Equal(t, 2, stats.RejectedLoans)
	require.Equal(t, 3, stats.TotalPayments)
	// Stored OVERDUE counts as pending settlement.
	require.Equal(t, 2, stats.PendingPayments)
	// Disbursement total sums principal across every status.
	require.Equal(t, "1500000.00", stats.TotalDisbursed.StringFixed(2))
}

func TestLoanDistributionSortedByType(t *testing.T) {
	svc, mem := newReportingFixture(t)
	now := time.Now()

	seedLoan(t, mem, domain.LoanTypePersonal, domain.LoanStatusActive, 1000, now)
	seedLoan(t, mem, domain.LoanTypePersonal, domain.LoanStatusPending, 1000, now)
	seedLoan(t, mem, domain.LoanTypeCar, domain.LoanStatusActive, 1000, now)

	counts, err := svc.LoanDistribution(context.Background())
	require.NoError(t, err)
	require.Equal(t, []TypeCount{
		{Name: "CAR", Value: 1},
		{Name: "PERSONAL", Value: 2},
	}, counts)
}

func TestDisbursementTrendSixChronologicalMonths(t *testing.T) {
	svc, mem := newReportingFixture(t)
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	seedLoan(t, mem, domain.LoanTypePersonal, domain.LoanStatusActive, 100000, now)
	seedLoan(t, mem, domain.LoanTypeHome, domain.LoanStatusActive, 50000, now.AddDate(0, -2, 0))
	seedLoan(t, mem, domain.LoanTypeCar, domain.LoanStatusActive, 25000, now.AddDate(0, -2, 0))
	// Outside the six month window.
	seedLoan(t, mem, domain.LoanTypeCar, domain.LoanStatusActive, 999999, now.AddDate(0, -7, 0))

	trend, err := svc.disbursementTrendAt(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, trend, 6)

	require.Equal(t, []string{"Oct", "Nov", "Dec", "Jan", "Feb", "Mar"}, trendMonthsOf(trend))
	require.Equal(t, "0.00", trend[0].Amount.StringFixed(2))
	require.Equal(t, "75000.00", trend[3].Amount.StringFixed(2))
	require.Equal(t, "100000.00", trend[5].Amount.StringFixed(2))
}

func trendMonthsOf(trend []TrendPoint) []string {
	months := make([]string, 0, len(trend))
	for _, p := range trend {
		months = append(months, p.Month)
	}
	return months
}

func TestRecentActivityNewestTen(t *testing.T) {
	svc, mem := newReportingFixture(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		n := &domain.Notification{UserID: "user-1", Type: domain.NotificationLoanApplied, Message: "applied"}
		require.NoError(t, mem.Notifications().Create(ctx, n))
		time.Sleep(time.Millisecond)
	}

	entries, err := svc.RecentActivity(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 10)
	for i := 1; i < len(entries); i++ {
		require.False(t, entries[i].Time.After(entries[i-1].Time))
	}
}

func TestLoanReportCSV(t *testing.T) {
	svc, mem := newReportingFixture(t)
	ctx := context.Background()

	january := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	february := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	seedLoan(t, mem, domain.LoanTypePersonal, domain.LoanStatusActive, 100000, january)
	seedLoan(t, mem, domain.LoanTypeHome, domain.LoanStatusActive, 200000, february)

	report, err := svc.LoanReportCSV(ctx, "")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(report)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Loan ID,User ID,Type,Principal,Status,Date", lines[0])

	filtered, err := svc.LoanReportCSV(ctx, "2026-01")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(string(filtered)), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[1], "PERSONAL")
	require.Contains(t, lines[1], "2026-01-10")
}
