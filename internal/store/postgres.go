package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/surveylens/brandcheck/internal/resilience"
)

// Pool is the subset of pgxpool.Pool the store uses, so tests can swap in a
// mock pool.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot store operations.
var preparedStatements = map[string]string{
	"insert_decision": `INSERT INTO decisions (id, request_key, mode, subject, action, decision, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"get_decision":    `SELECT id, request_key, mode, subject, decision, created_at FROM decisions WHERE id = $1`,
	"count_dlq":       `SELECT COUNT(*) FROM dead_letter_queue`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS decisions (
	id          TEXT PRIMARY KEY,
	request_key TEXT NOT NULL,
	mode        TEXT NOT NULL,
	subject     TEXT NOT NULL,
	action      TEXT NOT NULL,
	decision    JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS dead_letter_queue (
	id            TEXT PRIMARY KEY,
	request_key   TEXT NOT NULL,
	subject       TEXT NOT NULL,
	error         TEXT NOT NULL,
	error_class   TEXT NOT NULL DEFAULT 'transient',
	retry_count   INTEGER NOT NULL DEFAULT 0,
	max_retries   INTEGER NOT NULL DEFAULT 3,
	next_retry_at TIMESTAMPTZ NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_decisions_request_key ON decisions(request_key);
CREATE INDEX IF NOT EXISTS idx_decisions_action ON decisions(action);
CREATE INDEX IF NOT EXISTS idx_decisions_mode ON decisions(mode);
CREATE INDEX IF NOT EXISTS idx_dlq_error_class ON dead_letter_queue(error_class);
CREATE INDEX IF NOT EXISTS idx_dlq_next_retry ON dead_letter_queue(next_retry_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveDecision(ctx context.Context, rec DecisionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	decisionJSON, err := json.Marshal(rec.Decision)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal decision")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO decisions (id, request_key, mode, subject, action, decision, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.RequestKey, rec.Mode, rec.Subject, string(rec.Decision.Action), decisionJSON, rec.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert decision")
}

func (s *PostgresStore) GetDecision(ctx context.Context, id string) (*DecisionRecord, error) {
	var rec DecisionRecord
	var decisionJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, request_key, mode, subject, decision, created_at FROM decisions WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.RequestKey, &rec.Mode, &rec.Subject, &decisionJSON, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("decision not found: %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get decision %s", id)
	}

	if err := json.Unmarshal(decisionJSON, &rec.Decision); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal decision")
	}
	return &rec, nil
}

func (s *PostgresStore) ListDecisions(ctx context.Context, filter DecisionFilter) ([]DecisionRecord, error) {
	query := `SELECT id, request_key, mode, subject, decision, created_at FROM decisions WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Action != "" {
		query += fmt.Sprintf(` AND action = $%d`, argIdx)
		args = append(args, string(filter.Action))
		argIdx++
	}
	if filter.Mode != "" {
		query += fmt.Sprintf(` AND mode = $%d`, argIdx)
		args = append(args, filter.Mode)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list decisions")
	}
	defer rows.Close()

	var recs []DecisionRecord
	for rows.Next() {
		var rec DecisionRecord
		var decisionJSON []byte
		if err := rows.Scan(&rec.ID, &rec.RequestKey, &rec.Mode, &rec.Subject, &decisionJSON, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan decision")
		}
		if err := json.Unmarshal(decisionJSON, &rec.Decision); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal decision")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: list decisions iterate")
}

func (s *PostgresStore) EnqueueDLQ(ctx context.Context, entry resilience.DLQEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO dead_letter_queue
		 (id, request_key, subject, error, error_class, retry_count, max_retries, next_retry_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   error = $4, error_class = $5, retry_count = $6, next_retry_at = $8`,
		entry.ID, entry.RequestKey, entry.Subject, entry.Error, entry.ErrorClass,
		entry.RetryCount, entry.MaxRetries, entry.NextRetryAt, entry.CreatedAt,
	)
	return eris.Wrap(err, "postgres: enqueue dlq")
}

func (s *PostgresStore) ListDLQ(ctx context.Context, filter DLQFilter) ([]resilience.DLQEntry, error) {
	query := `SELECT id, request_key, subject, error, error_class, retry_count, max_retries, next_retry_at, created_at
	          FROM dead_letter_queue WHERE true`
	args := []any{}
	argIdx := 1

	if filter.ErrorClass != "" {
		query += fmt.Sprintf(` AND error_class = $%d`, argIdx)
		args = append(args, filter.ErrorClass)
		argIdx++
	}
	query += ` ORDER BY next_retry_at ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list dlq")
	}
	defer rows.Close()

	var entries []resilience.DLQEntry
	for rows.Next() {
		var e resilience.DLQEntry
		if err := rows.Scan(&e.ID, &e.RequestKey, &e.Subject, &e.Error, &e.ErrorClass,
			&e.RetryCount, &e.MaxRetries, &e.NextRetryAt, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan dlq entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list dlq iterate")
}

func (s *PostgresStore) IncrementDLQRetry(ctx context.Context, id string, nextRetryAt time.Time, lastErr string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE dead_letter_queue
		 SET retry_count = retry_count + 1, next_retry_at = $1, error = $2
		 WHERE id = $3`,
		nextRetryAt, lastErr, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: increment dlq retry %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("dlq entry not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) RemoveDLQ(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM dead_letter_queue WHERE id = $1`, id)
	return eris.Wrap(err, "postgres: remove dlq")
}

func (s *PostgresStore) CountDLQ(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM dead_letter_queue`).Scan(&count)
	return count, eris.Wrap(err, "postgres: count dlq")
}
