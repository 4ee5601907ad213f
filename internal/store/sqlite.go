package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/surveylens/brandcheck/internal/resilience"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS decisions (
	id          TEXT PRIMARY KEY,
	request_key TEXT NOT NULL,
	mode        TEXT NOT NULL,
	subject     TEXT NOT NULL,
	action      TEXT NOT NULL,
	decision    TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS dead_letter_queue (
	id            TEXT PRIMARY KEY,
	request_key   TEXT NOT NULL,
	subject       TEXT NOT NULL,
	error         TEXT NOT NULL,
	error_class   TEXT NOT NULL DEFAULT 'transient',
	retry_count   INTEGER NOT NULL DEFAULT 0,
	max_retries   INTEGER NOT NULL DEFAULT 3,
	next_retry_at DATETIME NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_decisions_request_key ON decisions(request_key);
CREATE INDEX IF NOT EXISTS idx_decisions_action ON decisions(action);
CREATE INDEX IF NOT EXISTS idx_decisions_mode ON decisions(mode);
CREATE INDEX IF NOT EXISTS idx_dlq_error_class ON dead_letter_queue(error_class);
CREATE INDEX IF NOT EXISTS idx_dlq_next_retry ON dead_letter_queue(next_retry_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveDecision(ctx context.Context, rec DecisionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	decisionJSON, err := json.Marshal(rec.Decision)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal decision")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decisions (id, request_key, mode, subject, action, decision, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RequestKey, rec.Mode, rec.Subject, string(rec.Decision.Action), string(decisionJSON), rec.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert decision")
}

func (s *SQLiteStore) GetDecision(ctx context.Context, id string) (*DecisionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, request_key, mode, subject, decision, created_at FROM decisions WHERE id = ?`,
		id,
	)
	return scanDecision(row)
}

func (s *SQLiteStore) ListDecisions(ctx context.Context, filter DecisionFilter) ([]DecisionRecord, error) {
	query := `SELECT id, request_key, mode, subject, decision, created_at FROM decisions WHERE 1=1`
	var args []any

	if filter.Action != "" {
		query += ` AND action = ?`
		args = append(args, string(filter.Action))
	}
	if filter.Mode != "" {
		query += ` AND mode = ?`
		args = append(args, filter.Mode)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list decisions")
	}
	defer rows.Close()

	var recs []DecisionRecord
	for rows.Next() {
		r, err := scanDecision(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *r)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: list decisions iterate")
}

func (s *SQLiteStore) EnqueueDLQ(ctx context.Context, entry resilience.DLQEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dead_letter_queue
		 (id, request_key, subject, error, error_class, retry_count, max_retries, next_retry_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   error = excluded.error, error_class = excluded.error_class,
		   retry_count = excluded.retry_count, next_retry_at = excluded.next_retry_at`,
		entry.ID, entry.RequestKey, entry.Subject, entry.Error, entry.ErrorClass,
		entry.RetryCount, entry.MaxRetries, entry.NextRetryAt, entry.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: enqueue dlq")
}

func (s *SQLiteStore) ListDLQ(ctx context.Context, filter DLQFilter) ([]resilience.DLQEntry, error) {
	query := `SELECT id, request_key, subject, error, error_class, retry_count, max_retries, next_retry_at, created_at
	          FROM dead_letter_queue WHERE 1=1`
	var args []any

	if filter.ErrorClass != "" {
		query += ` AND error_class = ?`
		args = append(args, filter.ErrorClass)
	}
	query += ` ORDER BY next_retry_at ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list dlq")
	}
	defer rows.Close()

	var entries []resilience.DLQEntry
	for rows.Next() {
		var e resilience.DLQEntry
		if err := rows.Scan(&e.ID, &e.RequestKey, &e.Subject, &e.Error, &e.ErrorClass,
			&e.RetryCount, &e.MaxRetries, &e.NextRetryAt, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan dlq entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list dlq iterate")
}

func (s *SQLiteStore) IncrementDLQRetry(ctx context.Context, id string, nextRetryAt time.Time, lastErr string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE dead_letter_queue
		 SET retry_count = retry_count + 1, next_retry_at = ?, error = ?
		 WHERE id = ?`,
		nextRetryAt, lastErr, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: increment dlq retry %s", id)
	}
	return checkRowsAffected(res, "dlq entry", id)
}

func (s *SQLiteStore) RemoveDLQ(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM dead_letter_queue WHERE id = ?`, id)
	return eris.Wrap(err, "sqlite: remove dlq")
}

func (s *SQLiteStore) CountDLQ(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dead_letter_queue`).Scan(&count)
	return count, eris.Wrap(err, "sqlite: count dlq")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanDecision(row scannable) (*DecisionRecord, error) {
	var rec DecisionRecord
	var decisionJSON string

	err := row.Scan(&rec.ID, &rec.RequestKey, &rec.Mode, &rec.Subject, &decisionJSON, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("decision not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan decision")
	}

	if err := json.Unmarshal([]byte(decisionJSON), &rec.Decision); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal decision")
	}
	return &rec, nil
}
