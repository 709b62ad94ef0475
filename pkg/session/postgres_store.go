package session

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the goose migrations that create the sessions table.
// Pass it to db.Migrate before using PostgresStore.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// PostgresStore persists sessions in the approuter_sessions table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on top of an open pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const (
	insertSessionSQL = `
INSERT INTO approuter_sessions
    (id, token, user_id, ip, user_agent, session_values, created_at, last_active_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	selectSessionSQL = `
SELECT id, token, user_id, ip, user_agent, session_values, created_at, last_active_at, expires_at
FROM approuter_sessions
WHERE token = $1`

	updateSessionSQL = `
UPDATE approuter_sessions
SET token = $2, user_id = $3, session_values = $4, last_active_at = $5, expires_at = $6
WHERE id = $1`

	deleteSessionSQL = `DELETE FROM approuter_sessions WHERE id = $1`

	deleteExpiredSQL = `DELETE FROM approuter_sessions WHERE expires_at < $1`
)

func (s *PostgresStore) Create(ctx context.Context, sess *Session) error {
	values, err := marshalValues(sess.Values)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, insertSessionSQL,
		sess.ID, sess.Token, sess.UserID, sess.IP, sess.UserAgent, values,
		sess.CreatedAt, sess.LastActiveAt, sess.ExpiresAt,
	)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	var (
		sess   Session
		values []byte
	)
	err := s.pool.QueryRow(ctx, selectSessionSQL, token).Scan(
		&sess.ID, &sess.Token, &sess.UserID, &sess.IP, &sess.UserAgent, &values,
		&sess.CreatedAt, &sess.LastActiveAt, &sess.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(values, &sess.Values); err != nil {
		return nil, err
	}
	if sess.Values == nil {
		sess.Values = make(map[string]any)
	}
	if sess.IsExpired() {
		return nil, ErrExpired
	}
	return &sess, nil
}

func (s *PostgresStore) Update(ctx context.Context, sess *Session) error {
	values, err := marshalValues(sess.Values)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, updateSessionSQL,
		sess.ID, sess.Token, sess.UserID, values, sess.LastActiveAt, sess.ExpiresAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(tag)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, deleteSessionSQL, id)
	return err
}

// DeleteExpired removes sessions that expired before now and reports how many.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, deleteExpiredSQL, time.Now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func marshalValues(values map[string]any) ([]byte, error) {
	if values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(values)
}

func requireAffected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
