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

CREATE TABLE IF NOT EXISTS cases (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	summary    TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	thread_id  TEXT NOT NULL DEFAULT '',
	message_id TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	name             TEXT NOT NULL,
	info             TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT '',
	platform_user_id TEXT NOT NULL DEFAULT '',
	thread_id        TEXT NOT NULL DEFAULT '',
	message_id       TEXT NOT NULL DEFAULT '',
	created_at       DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS case_contacts (
	case_id    TEXT NOT NULL,
	contact_id INTEGER NOT NULL,
	role       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (case_id, contact_id)
);

CREATE TABLE IF NOT EXISTS case_tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id     TEXT NOT NULL,
	description TEXT NOT NULL,
	deadline    TEXT NOT NULL DEFAULT '',
	done        INTEGER NOT NULL DEFAULT 0 CHECK(done IN (0, 1))
);

CREATE INDEX IF NOT EXISTS idx_cases_created_at ON cases(created_at);
CREATE INDEX IF NOT EXISTS idx_case_contacts_contact ON case_contacts(contact_id);
CREATE INDEX IF NOT EXISTS idx_case_tasks_case ON case_tasks(case_id);
CREATE INDEX IF NOT EXISTS idx_case_tasks_deadline ON case_tasks(deadline);
CREATE INDEX IF NOT EXISTS idx_case_tasks_done ON case_tasks(done);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
