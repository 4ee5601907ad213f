package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveylens/brandcheck/internal/model"
	"github.com/surveylens/brandcheck/internal/resilience"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_SaveDecision(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO decisions`).
		WithArgs("dec-1", "brandcheck:v1:abc", "response", "nike", "approve",
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SaveDecision(context.Background(), DecisionRecord{
		ID:         "dec-1",
		RequestKey: "brandcheck:v1:abc",
		Mode:       "response",
		Subject:    "nike",
		Decision:   model.Decision{ID: "dec-1", Action: model.ActionApprove, ConfidencePercent: 90},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetDecision(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	decisionJSON, err := json.Marshal(model.Decision{
		ID: "dec-1", Action: model.ActionReview, ConfidencePercent: 55, RequiresHumanReview: true,
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, request_key, mode, subject, decision, created_at FROM decisions WHERE id = \$1`).
		WithArgs("dec-1").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "request_key", "mode", "subject", "decision", "created_at"},
		).AddRow("dec-1", "brandcheck:v1:abc", "response", "nike", decisionJSON, now))

	rec, err := s.GetDecision(context.Background(), "dec-1")
	require.NoError(t, err)
	assert.Equal(t, model.ActionReview, rec.Decision.Action)
	assert.True(t, rec.Decision.RequiresHumanReview)
	assert.Equal(t, "response", rec.Mode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetDecision_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, request_key, mode, subject, decision, created_at FROM decisions WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetDecision(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decision not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListDecisions_FiltersByAction(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	decisionJSON, err := json.Marshal(model.Decision{Action: model.ActionReject})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, request_key, mode, subject, decision, created_at FROM decisions WHERE true AND action = \$1`).
		WithArgs("reject", 50).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "request_key", "mode", "subject", "decision", "created_at"},
		).AddRow("dec-2", "brandcheck:v1:def", "entity", "adibas", decisionJSON, time.Now().UTC()))

	recs, err := s.ListDecisions(context.Background(), DecisionFilter{Action: model.ActionReject, Limit: 50})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, model.ActionReject, recs[0].Decision.Action)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_EnqueueDLQ_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT`).
		WithArgs("dlq-1", "brandcheck:v1:abc", "nike", "provider unavailable", "transient",
			1, 3, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.EnqueueDLQ(context.Background(), resilience.DLQEntry{
		ID:          "dlq-1",
		RequestKey:  "brandcheck:v1:abc",
		Subject:     "nike",
		Error:       "provider unavailable",
		ErrorClass:  "transient",
		RetryCount:  1,
		MaxRetries:  3,
		NextRetryAt: time.Now().UTC().Add(time.Minute),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_IncrementDLQRetry_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE dead_letter_queue`).
		WithArgs(pgxmock.AnyArg(), "timeout", "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.IncrementDLQRetry(context.Background(), "missing", time.Now().UTC(), "timeout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountDLQ(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM dead_letter_queue`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	n, err := s.CountDLQ(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
