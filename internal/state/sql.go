package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// Drivers are selected by name in NewSQLStore.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// SQLStore persists conversation state in a single table, one JSON row per
// sender. It runs on SQLite (driver "sqlite3") or PostgreSQL (driver "pgx");
// both support the same upsert syntax.
type SQLStore struct {
	db       *sql.DB
	postgres bool
}

const sqlSchema = `
CREATE TABLE IF NOT EXISTS conversations (
	sender_id  TEXT PRIMARY KEY,
	state      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// NewSQLStore opens (or reuses) the database behind dsn and ensures the
// schema exists. driver is "sqlite3" or "pgx".
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	switch driver {
	case "sqlite3", "pgx":
	default:
		return nil, fmt.Errorf("unsupported state store driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to state database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqlSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create state schema: %w", err)
	}

	return &SQLStore{db: db, postgres: driver == "pgx"}, nil
}

func (s *SQLStore) Load(ctx context.Context, senderID string) (*Conversation, error) {
	query := `SELECT state FROM conversations WHERE sender_id = ?`
	if s.postgres {
		query = `SELECT state FROM conversations WHERE sender_id = $1`
	}

	var raw string
	err := s.db.QueryRowContext(ctx, query, senderID).Scan(&raw)
	if err == sql.ErrNoRows {
		return New(senderID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation state: %w", err)
	}

	conv := &Conversation{}
	if err := json.Unmarshal([]byte(raw), conv); err != nil {
		return nil, fmt.Errorf("failed to decode conversation state: %w", err)
	}
	return conv, nil
}

func (s *SQLStore) Save(ctx context.Context, conv *Conversation) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to encode conversation state: %w", err)
	}

	query := `INSERT INTO conversations (sender_id, state, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(sender_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`
	if s.postgres {
		query = `INSERT INTO conversations (sender_id, state, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT(sender_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`
	}

	if _, err := s.db.ExecContext(ctx, query, conv.SenderID, string(raw), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save conversation state: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
