package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/applicant-board/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// UpsertApplicants inserts or replaces a batch of applicant snapshots.
// The full applicant is stored as a JSON blob; the indexed columns exist
// only to serve filtered cache reads.
func (s *SQLiteStore) UpsertApplicants(ctx context.Context, applicants []model.Applicant) error {
	if len(applicants) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO applicants (
			id, name, headline, job_id, job_title,
			stage, source, rating, bookmarked,
			applied_at, last_activity_at, data, fetched_at
		) VALUES (
			?, ?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?
		)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, a := range applicants {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshaling applicant %s: %w", a.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			a.ID, a.Name, a.Headline, a.Job.ID, a.Job.Title,
			string(a.Stage), string(a.Source), a.Rating, boolToInt(a.IsBookmarked),
			a.AppliedAt.UTC(), a.LastActivityAt.UTC(), string(data), now,
		)
		if err != nil {
			return fmt.Errorf("upserting applicant %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// GetApplicants retrieves cached applicants matching the provided filter,
// ordered by last activity descending.
func (s *SQLiteStore) GetApplicants(
	ctx context.Context,
	filter SnapshotFilter,
) ([]model.Applicant, error) {
	var conditions []string
	var args []interface{}

	if filter.JobID != nil {
		conditions = append(conditions, "job_id = ?")
		args = append(args, *filter.JobID)
	}
	if filter.Stage != nil {
		conditions = append(conditions, "stage = ?")
		args = append(args, *filter.Stage)
	}
	if filter.Source != nil {
		conditions = append(conditions, "source = ?")
		args = append(args, *filter.Source)
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "(name LIKE ? OR headline LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT data FROM applicants"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY last_activity_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying applicants: %w", err)
	}
	defer rows.Close()

	var applicants []model.Applicant
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning applicant row: %w", err)
		}

		var a model.Applicant
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			return nil, fmt.Errorf("unmarshaling applicant snapshot: %w", err)
		}
		applicants = append(applicants, a)
	}

	return applicants, rows.Err()
}

// GetApplicantByID retrieves a single cached applicant by id.
func (s *SQLiteStore) GetApplicantByID(
	ctx context.Context,
	id string,
) (*model.Applicant, error) {
	var data string
	err := s.db.GetContext(ctx, &data, "SELECT data FROM applicants WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting applicant %s: %w", id, err)
	}

	var a model.Applicant
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, fmt.Errorf("unmarshaling applicant snapshot: %w", err)
	}

	return &a, nil
}

// DeleteApplicantsNotIn removes cached applicants whose ids are absent
// from the given list. Called after an unfiltered reload so applicants
// deleted remotely do not linger in the cache. An empty list clears the
// cache entirely.
func (s *SQLiteStore) DeleteApplicantsNotIn(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM applicants"); err != nil {
			return fmt.Errorf("clearing applicants: %w", err)
		}
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := "DELETE FROM applicants WHERE id NOT IN (" + placeholders + ")"
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("pruning applicants: %w", err)
	}

	return nil
}

// UpsertJobs inserts or replaces a batch of job snapshots.
func (s *SQLiteStore) UpsertJobs(ctx context.Context, jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO jobs (
			id, title, department, location, status, created_at, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	for _, j := range jobs {
		_, err := tx.ExecContext(ctx, query,
			j.ID, j.Title, j.Department, j.Location, j.Status,
			j.CreatedAt.UTC(), now,
		)
		if err != nil {
			return fmt.Errorf("upserting job %s: %w", j.ID, err)
		}
	}

	return tx.Commit()
}

// GetJobs retrieves all cached jobs ordered by title.
func (s *SQLiteStore) GetJobs(ctx context.Context) ([]model.Job, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, title, department, location, status, created_at FROM jobs ORDER BY title",
	)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		var createdAt time.Time
		err := rows.Scan(&j.ID, &j.Title, &j.Department, &j.Location, &j.Status, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		j.CreatedAt = createdAt
		jobs = append(jobs, j)
	}

	return jobs, rows.Err()
}

// CreateNotification inserts a new notification record.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, applicant_id, message, read, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.ApplicantID, n.Message, boolToInt(n.Read), n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}

	return nil
}

// GetUnreadNotifications retrieves all notifications that have not been read,
// ordered by creation time descending.
func (s *SQLiteStore) GetUnreadNotifications(ctx context.Context) ([]model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, applicant_id, message, read, created_at FROM notifications WHERE read = 0 ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		var readInt int
		var createdAt time.Time
		err := rows.Scan(&n.ID, &n.ApplicantID, &n.Message, &readInt, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.Read = readInt != 0
		n.CreatedAt = createdAt
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkNotificationRead marks a single notification as read.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	return nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
