package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS applicants (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	headline         TEXT NOT NULL DEFAULT '',
	job_id           TEXT NOT NULL DEFAULT '',
	job_title        TEXT NOT NULL DEFAULT '',
	stage            TEXT NOT NULL,
	source           TEXT NOT NULL DEFAULT 'other',
	rating           INTEGER NOT NULL DEFAULT 0 CHECK(rating BETWEEN 0 AND 5),
	bookmarked       INTEGER NOT NULL DEFAULT 0 CHECK(bookmarked IN (0, 1)),
	applied_at       DATETIME NOT NULL,
	last_activity_at DATETIME NOT NULL,
	data             TEXT NOT NULL DEFAULT '{}',
	fetched_at       DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS jobs (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	location   TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	fetched_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id           TEXT PRIMARY KEY,
	applicant_id TEXT NOT NULL,
	message      TEXT NOT NULL,
	read         INTEGER NOT NULL DEFAULT 0 CHECK(read IN (0, 1)),
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_applicants_stage ON applicants(stage);
CREATE INDEX IF NOT EXISTS idx_applicants_source ON applicants(source);
CREATE INDEX IF NOT EXISTS idx_applicants_job_id ON applicants(job_id);
CREATE INDEX IF NOT EXISTS idx_applicants_last_activity ON applicants(last_activity_at);
CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_applicants_job_stage
	ON applicants(job_id, stage);

CREATE INDEX IF NOT EXISTS idx_notifications_applicant_id
	ON notifications(applicant_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
