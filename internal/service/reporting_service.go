package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/loanworks/loan-service/internal/domain"
	"github.com/loanworks/loan-service/internal/repository"
)

const (
	statsCacheKey      = "reporting:dashboard_stats"
	recentActivitySize = 10
	trendMonths        = 6
)

// ReportingService derives the admin dashboard views by scanning the loan
// and payment collections. The scans are full-table and only acceptable at
// small volumes; results are snapshot reads, not transactionally consistent
// with concurrent writes.
type ReportingService struct {
	users         repository.UserRepository
	loans         repository.LoanRepository
	payments      repository.PaymentRepository
	notifications repository.NotificationRepository
	cache         *redis.Client
	cacheTTL      time.Duration
	logger        *zap.Logger
}

// ReportingDependencies bundles inputs for the reporting service.
type ReportingDependencies struct {
	UserRepo         repository.UserRepository
	LoanRepo         repository.LoanRepository
	PaymentRepo      repository.PaymentRepository
	NotificationRepo repository.NotificationRepository
	Cache            *redis.Client
	CacheTTL         time.Duration
	Logger           *zap.Logger
}

// DashboardStats is the headline admin snapshot. TotalDisbursed sums the
// requested principal across every loan regardless of status; the name is
// kept for API compatibility even though rejected and pending principal is
// included.
type DashboardStats struct {
	TotalUsers      int             `json:"totalUsers"`
	ActiveLoans     int             `json:"activeLoans"`
	PendingLoans    int             `json:"pendingLoans"`
	RejectedLoans   int             `json:"rejectedLoans"`
	TotalLoans      int             `json:"totalLoans"`
	PendingPayments int             `json:"pendingPayments"`
	TotalPayments   int             `json:"totalPayments"`
	TotalDisbursed  decimal.Decimal `json:"totalDisbursed"`
}

// TypeCount is one slice of the loan-type distribution chart.
type TypeCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TrendPoint is one month of the disbursement trend.
type TrendPoint struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// ActivityEntry is one row of the recent-activity log.
type ActivityEntry struct {
	Message string    `json:"msg"`
	Time    time.Time `json:"time"`
	Type    string    `json:"type"`
}

// NewReportingService constructs the service.
func NewReportingService(deps ReportingDependencies) *ReportingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportingService{
		users:         deps.UserRepo,
		loans:         deps.LoanRepo,
		payments:      deps.PaymentRepo,
		notifications: deps.NotificationRepo,
		cache:         deps.Cache,
		cacheTTL:      deps.CacheTTL,
		logger:        logger,
	}
}

// DashboardStats assembles the headline counters. Results are served from
// the Redis cache when fresh; cache failures degrade to a direct scan.
func (s *ReportingService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	if cached := s.cachedStats(ctx); cached != nil {
		return cached, nil
	}

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := s.loans.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalUsers:     len(users),
		TotalLoans:     len(loans),
		TotalPayments:  len(payments),
		TotalDisbursed: decimal.Zero,
	}
	for _, loan := range loans {
		switch loan.Status {
		case domain.LoanStatusActive:
			stats.ActiveLoans++
		case domain.LoanStatusPending:
			stats.PendingLoans++
		case domain.LoanStatusRejected, domain.LoanStatusDefaulted:
			stats.RejectedLoans++
		}
		stats.TotalDisbursed = stats.TotalDisbursed.Add(loan.Principal)
	}
	for _, payment := range payments {
		if payment.Status == domain.PaymentStatusPending || payment.Status == domain.PaymentStatusOverdue {
			stats.PendingPayments++
		}
	}
	stats.TotalDisbursed = stats.TotalDisbursed.Round(2)

	s.storeStats(ctx, stats)
	return stats, nil
}

// LoanDistribution counts loans per product type for charting.
func (s *ReportingService) LoanDistribution(ctx context.Context) ([]TypeCount, error) {
	loans, err := s.loans.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, loan := range loans {
		counts[string(loan.LoanType)]++
	}

	result := make([]TypeCount, 0, len(counts))
	for name, value := range counts {
		result = append(result, TypeCount{Name: name, Value: value})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// DisbursementTrend sums principal per calendar month for the trailing six
// months. The result always has exactly six entries in chronological
// order; months without loans report zero.
func (s *ReportingService) DisbursementTrend(ctx context.Context) ([]TrendPoint, error) {
	return s.disbursementTrendAt(ctx, time.Now())
}

func (s *ReportingService) disbursementTrendAt(ctx context.Context, now time.Time) ([]TrendPoint, error) {
	loans, err := s.loans.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	type monthKey struct {
		year  int
		month time.Month
	}
	sums := make(map[monthKey]decimal.Decimal)
	for _, loan := range loans {
		key := monthKey{loan.StartDate.Year(), loan.StartDate.Month()}
		sums[key] = sums[key].Add(loan.Principal)
	}

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	result := make([]TrendPoint, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		month := firstOfMonth.AddDate(0, -i, 0)
		sum := sums[monthKey{month.Year(), month.Month()}]
		result = append(result, TrendPoint{
			Month:  month.Format("Jan"),
			Amount: sum.Round(2),
		})
	}
	return result, nil
}

// RecentActivity returns the ten newest notifications, newest first.
func (s *ReportingService) RecentActivity(ctx context.Context) ([]ActivityEntry, error) {
	notifications, err := s.notifications.ListRecent(ctx, recentActivitySize)
	if err != nil {
		return nil, err
	}
	result := make([]ActivityEntry, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, ActivityEntry{
			Message: n.Message,
			Time:    n.CreatedAt,
			Type:    string(n.Type),
		})
	}
	return result, nil
}

// LoanReportCSV renders the loan book as CSV, optionally filtered to one
// month (format YYYY-MM).
func (s *ReportingService) LoanReportCSV(ctx context.Context, month string) ([]byte, error) {
	loans, err := s.loans.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Loan ID", "User ID", "Type", "Principal", "Status", "Date"})
	for _, loan := range loans {
		date := loan.StartDate.Format("2006-01-02")
		if month != "" && !strings.HasPrefix(date, month) {
			continue
		}
		_ = w.Write([]string{
			loan.ID,
			loan.UserID,
			string(loan.LoanType),
			loan.Principal.StringFixed(2),
			string(loan.Status),
			date,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReportingService) cachedStats(ctx context.Context) *DashboardStats {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *ReportingService) storeStats(ctx context.Context, stats *DashboardStats) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("stats cache write failed", zap.Error(err))
	}
}
