package domain

import "time"

// Job is a job listing.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobFilter narrows a job listing. Empty fields match everything; set
// fields match case-insensitive substrings.
type JobFilter struct {
	Title    string
	Company  string
	Location string
}

// Application is a user's application to a job. A user applies to a job at
// most once.
type Application struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	UserID      string    `json:"user_id"`
	CoverLetter string    `json:"cover_letter"`
	CreatedAt   time.Time `json:"created_at"`
}

// Applicant is an application joined with the applicant's email, as shown
// to admins.
type Applicant struct {
	ID          string    `json:"id"`
	CoverLetter string    `json:"cover_letter"`
	CreatedAt   time.Time `json:"created_at"`
	Email       string    `json:"email"`
}
