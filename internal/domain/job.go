package domain

import "time"

// JobType enumerates employment arrangements.
type JobType string

const (
	JobTypeFullTime JobType = "FULL_TIME"
	JobTypePartTime JobType = "PART_TIME"
	JobTypeContract JobType = "CONTRACT"
)

// Job is a listing on the in-app job board. No business rules apply;
// listings exist to surface income opportunities to borrowers.
type Job struct {
	ID           string
	Title        string
	Company      string
	Location     string
	Salary       string
	Type         JobType
	Description  string
	Requirements []string
	CreatedAt    time.Time
}
