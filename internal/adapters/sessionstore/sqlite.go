package sessionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite" // registers the "sqlite" driver

	"github.com/okian/pitchside/internal/domain/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    match_id INTEGER NOT NULL,
    payload TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_updated_at ON sessions (updated_at);`

// SQLite stores sessions in a SQLite database file.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// OpenSQLite opens (and creates if needed) the database at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string, ttl time.Duration) (*SQLite, error) {
	if path == "" {
		path = "pitchside.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	// one connection keeps ":memory:" a single database and serialises writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create session schema: %w", err)
	}
	return &SQLite{db: db, ttl: ttl, now: time.Now}, nil
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, id string) (session.State, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM sessions WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return session.State{}, ErrNotFound
	}
	if err != nil {
		return session.State{}, fmt.Errorf("get session: %w", err)
	}
	var st session.State
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return session.State{}, fmt.Errorf("decode session %s: %w", id, err)
	}
	if expired(st, s.ttl, s.now()) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		return session.State{}, ErrNotFound
	}
	return st, nil
}

// Put implements Store.
func (s *SQLite) Put(ctx context.Context, st session.State) error {
	if st.ID == "" {
		return ErrInvalid
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO sessions (id, match_id, payload, updated_at) VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET match_id = excluded.match_id, payload = excluded.payload, updated_at = excluded.updated_at`,
		st.ID, st.MatchID, string(payload), st.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Delete implements Store.
func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count implements Store. Expired rows are swept first.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	if s.ttl > 0 {
		cutoff := s.now().Add(-s.ttl).UnixNano()
		if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE updated_at <= ?`, cutoff); err != nil {
			return 0, fmt.Errorf("sweep sessions: %w", err)
		}
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// Close implements Store.
func (s *SQLite) Close() error {
	return s.db.Close()
}
