package model

import "time"

// Job is a job opening offered for filtering. The list is read-only on the
// client; openings are managed elsewhere.
type Job struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Department string    `json:"department,omitempty"`
	Location   string    `json:"location,omitempty"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
