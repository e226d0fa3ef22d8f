package domain

import "time"

// CibilFactors are the sub-factor inputs of a credit score, each on a
// 0-100 scale.
type CibilFactors struct {
	PaymentHistory    int
	CreditUtilization int
	CreditAge         int
	CreditMix         int
	RecentInquiries   int
}

// CibilScore is the per-user credit score record. At most one exists per
// user; it is created on first computation, never at registration.
type CibilScore struct {
	ID          string
	UserID      string
	Score       int
	LastUpdated time.Time
	Factors     CibilFactors
}
