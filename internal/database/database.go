package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
// The UNIQUE constraint on users.email is the authoritative guard against
// concurrent registrations racing past the application-level pre-check.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		phone TEXT,
		country TEXT,
		birth_date TEXT,
		university TEXT,
		spanish_level TEXT,
		start_date TEXT,
		motivation TEXT,
		newsletter BOOLEAN DEFAULT 0,
		email_verified BOOLEAN DEFAULT 0,
		is_active BOOLEAN DEFAULT 1,
		role TEXT DEFAULT 'student',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		check_in_time DATETIME DEFAULT CURRENT_TIMESTAMP,
		check_out_time DATETIME,
		qr_code TEXT,
		status TEXT DEFAULT 'present',
		notes TEXT,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS forum_posts (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		category TEXT DEFAULT 'general',
		is_pinned BOOLEAN DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS forum_replies (
		id TEXT NOT NULL PRIMARY KEY,
		post_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (post_id) REFERENCES forum_posts(id) ON DELETE CASCADE,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS ai_conversations (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		message TEXT NOT NULL,
		response TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS resources (
		id TEXT NOT NULL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		file_url TEXT,
		file_type TEXT,
		category TEXT,
		week INTEGER,
		uploaded_by TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (uploaded_by) REFERENCES users(id)
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
