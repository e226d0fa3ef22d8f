package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/loanworks/loan-service/internal/domain"
)

// Memory bundles in-memory implementations of every repository. It backs
// the service when no POSTGRES_DSN is configured and the service tests.
// Absent ids surface as pgx.ErrNoRows so error mapping matches the
// Postgres implementations.
type Memory struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	loans         map[string]domain.Loan
	payments      map[string]domain.Payment
	cibil         map[string]domain.CibilScore // keyed by user id
	notifications map[string]domain.Notification
	jobs          map[string]domain.Job
}

// NewMemory builds an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:         make(map[string]domain.User),
		loans:         make(map[string]domain.Loan),
		payments:      make(map[string]domain.Payment),
		cibil:         make(map[string]domain.CibilScore),
		notifications: make(map[string]domain.Notification),
		jobs:          make(map[string]domain.Job),
	}
}

// Users returns the in-memory UserRepository.
func (m *Memory) Users() UserRepository { return (*memoryUsers)(m) }

// Loans returns the in-memory LoanRepository.
func (m *Memory) Loans() LoanRepository { return (*memoryLoans)(m) }

// Payments returns the in-memory PaymentRepository.
func (m *Memory) Payments() PaymentRepository { return (*memoryPayments)(m) }

// Cibil returns the in-memory CibilRepository.
func (m *Memory) Cibil() CibilRepository { return (*memoryCibil)(m) }

// Notifications returns the in-memory NotificationRepository.
func (m *Memory) Notifications() NotificationRepository { return (*memoryNotifications)(m) }

// Jobs returns the in-memory JobRepository.
func (m *Memory) Jobs() JobRepository { return (*memoryJobs)(m) }

type memoryUsers Memory

func (m *memoryUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUsers) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUsers) ListAll(_ context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

type memoryLoans Memory

func (m *memoryLoans) Create(_ context.Context, loan *domain.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	loan.ID = uuid.NewString()
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt
	m.loans[loan.ID] = *loan
	return nil
}

func (m *memoryLoans) Update(_ context.Context, loan *domain.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loans[loan.ID]; !ok {
		return pgx.ErrNoRows
	}
	loan.UpdatedAt = time.Now()
	m.loans[loan.ID] = *loan
	return nil
}

func (m *memoryLoans) GetByID(_ context.Context, id string) (*domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loan, ok := m.loans[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &loan, nil
}

func (m *memoryLoans) ListByUser(_ context.Context, userID string) ([]domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.Loan
	for _, loan := range m.loans {
		if loan.UserID == userID {
			result = append(result, loan)
		}
	}
	sortLoansNewestFirst(result)
	return result, nil
}

func (m *memoryLoans) ListAll(_ context.Context) ([]domain.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.Loan, 0, len(m.loans))
	for _, loan := range m.loans {
		result = append(result, loan)
	}
	sortLoansNewestFirst(result)
	return result, nil
}

func (m *memoryLoans) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.loans, id)
	return nil
}

func sortLoansNewestFirst(loans []domain.Loan) {
	sort.Slice(loans, func(i, j int) bool { return loans[i].CreatedAt.After(loans[j].CreatedAt) })
}

type memoryPayments Memory

func (m *memoryPayments) Create(_ context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment.ID = uuid.NewString()
	m.payments[payment.ID] = *payment
	return nil
}

func (m *memoryPayments) Update(_ context.Context, payment *domain.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[payment.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.payments[payment.ID] = *payment
	return nil
}

func (m *memoryPayments) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &payment, nil
}

func (m *memoryPayments) ListByUser(_ context.Context, userID string) ([]domain.Payment, error) {
	return m.list(func(p domain.Payment) bool { return p.UserID == userID })
}

func (m *memoryPayments) ListByLoan(_ context.Context, loanID string) ([]domain.Payment, error) {
	return m.list(func(p domain.Payment) bool { return p.LoanID == loanID })
}

func (m *memoryPayments) ListByUserAndStatus(_ context.Context, userID string, status domain.PaymentStatus) ([]domain.Payment, error) {
	return m.list(func(p domain.Payment) bool { return p.UserID == userID && p.Status == status })
}

func (m *memoryPayments) ListAll(_ context.Context) ([]domain.Payment, error) {
	return m.list(func(domain.Payment) bool { return true })
}

func (m *memoryPayments) list(match func(domain.Payment) bool) ([]domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.Payment
	for _, payment := range m.payments {
		if match(payment) {
			result = append(result, payment)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DueDate.Before(result[j].DueDate) })
	return result, nil
}

type memoryCibil Memory

func (m *memoryCibil) GetByUserID(_ context.Context, userID string) (*domain.CibilScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	score, ok := m.cibil[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &score, nil
}

func (m *memoryCibil) Save(_ context.Context, score *domain.CibilScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.cibil[score.UserID]; ok {
		score.ID = existing.ID
	} else {
		score.ID = uuid.NewString()
	}
	m.cibil[score.UserID] = *score
	return nil
}

type memoryNotifications Memory

func (m *memoryNotifications) Create(_ context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	m.notifications[n.ID] = *n
	return nil
}

func (m *memoryNotifications) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &n, nil
}

func (m *memoryNotifications) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	sortNotificationsNewestFirst(result)
	return result, nil
}

func (m *memoryNotifications) ListRecent(_ context.Context, limit int) ([]domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 10
	}
	result := make([]domain.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		result = append(result, n)
	}
	sortNotificationsNewestFirst(result)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *memoryNotifications) MarkRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return pgx.ErrNoRows
	}
	n.Read = true
	m.notifications[id] = n
	return nil
}

func (m *memoryNotifications) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.notifications, id)
	return nil
}

func sortNotificationsNewestFirst(items []domain.Notification) {
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
}

type memoryJobs Memory

func (m *memoryJobs) Create(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job.ID = uuid.NewString()
	job.CreatedAt = time.Now()
	m.jobs[job.ID] = *job
	return nil
}

func (m *memoryJobs) GetByID(_ context.Context, id string) (*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &job, nil
}

func (m *memoryJobs) ListAll(_ context.Context) ([]domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		result = append(result, job)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (m *memoryJobs) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.jobs, id)
	return nil
}
