package store

import (
	"context"

	"github.com/nhle/applicant-board/internal/model"
)

// SnapshotFilter controls filtering and pagination for cached applicant
// queries. It mirrors the remote list parameters so the board can render a
// best-effort view before the first fetch completes.
type SnapshotFilter struct {
	JobID  *string
	Stage  *string
	Source *string
	Query  *string // matches name + headline
	Limit  int
	Offset int
}

// Store defines the persistence interface for the local snapshot cache:
// last-seen applicants and jobs plus new-applicant notifications. It is a
// read cache only; the remote applicant store stays the writer of record.
type Store interface {
	// === Applicant snapshots ===

	UpsertApplicants(ctx context.Context, applicants []model.Applicant) error
	GetApplicants(ctx context.Context, filter SnapshotFilter) ([]model.Applicant, error)
	GetApplicantByID(ctx context.Context, id string) (*model.Applicant, error)
	DeleteApplicantsNotIn(ctx context.Context, ids []string) error

	// === Job snapshots ===

	UpsertJobs(ctx context.Context, jobs []model.Job) error
	GetJobs(ctx context.Context) ([]model.Job, error)

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error

	Close() error
}
