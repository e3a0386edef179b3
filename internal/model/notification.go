package model

import "time"

// Notification represents an alert surfaced to the user about a new
// applicant detected during a background refresh.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// ApplicantID links this notification to the applicant it concerns.
	ApplicantID string `json:"applicant_id"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at"`
}
