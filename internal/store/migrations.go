package store

// migration is one schema step. Versions start at 1 and increase by one.
type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		// seq keeps insertion order independent of id and clock.
		sql: `
CREATE TABLE buckets (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	title      TEXT NOT NULL,
	prompt     TEXT NOT NULL,
	created_at DATETIME NOT NULL
);`,
	},
	{
		version: 2,
		sql:     `CREATE INDEX idx_buckets_title ON buckets (title COLLATE NOCASE);`,
	},
}
