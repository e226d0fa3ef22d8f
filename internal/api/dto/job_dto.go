package dto

import (
	"time"

	"github.com/loanworks/loan-service/internal/domain"
)

// JobCreateRequest publishes a job-board listing.
type JobCreateRequest struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Salary       string   `json:"salary"`
	Type         string   `json:"type"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
}

// JobResponse is the public listing shape.
type JobResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Salary       string    `json:"salary"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	CreatedAt    time.Time `json:"created_at"`
}

// FromJob maps a domain listing onto the response shape.
func FromJob(job *domain.Job) JobResponse {
	return JobResponse{
		ID:           job.ID,
		Title:        job.Title,
		Company:      job.Company,
		Location:     job.Location,
		Salary:       job.Salary,
		Type:         string(job.Type),
		Description:  job.Description,
		Requirements: job.Requirements,
		CreatedAt:    job.CreatedAt,
	}
}

// FromJobs maps a slice of listings.
func FromJobs(jobs []domain.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, FromJob(&jobs[i]))
	}
	return out
}
