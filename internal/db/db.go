package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, connString string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// Migrate creates the tables the API needs if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS boards (
		id          SERIAL PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		owner_id    INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS board_members (
		board_id  INT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		user_id   INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role      TEXT NOT NULL,
		joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (board_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS lists (
		id         SERIAL PRIMARY KEY,
		board_id   INT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		title      TEXT NOT NULL,
		position   INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS cards (
		id          SERIAL PRIMARY KEY,
		board_id    INT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		list_id     INT NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		position    INT NOT NULL DEFAULT 0,
		due_date    TIMESTAMPTZ,
		labels      TEXT[] NOT NULL DEFAULT '{}',
		created_by  INT REFERENCES users(id) ON DELETE SET NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS invites (
		id         SERIAL PRIMARY KEY,
		board_id   INT NOT NULL REFERENCES boards(id) ON DELETE CASCADE,
		email      TEXT NOT NULL,
		role       TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'pending',
		invited_by INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS invites_pending_uniq
		ON invites (board_id, email) WHERE status = 'pending'`,
	`CREATE TABLE IF NOT EXISTS analytics_events (
		id               BIGSERIAL PRIMARY KEY,
		event_name       TEXT NOT NULL,
		event_time       TIMESTAMPTZ NOT NULL,
		user_id          INT NOT NULL,
		session_id       TEXT,
		platform         TEXT NOT NULL,
		app_version      TEXT NOT NULL DEFAULT '',
		device_locale    TEXT,
		source_event_key TEXT UNIQUE,
		properties       JSONB NOT NULL DEFAULT '{}'
	)`,
}
