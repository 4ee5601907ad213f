// Package store persists classification decisions for audit and the
// dead-letter queue for failed batch items. Two backends ship: SQLite for
// single-operator use and Postgres for shared deployments.
package store

import (
	"context"
	"time"

	"github.com/surveylens/brandcheck/internal/model"
	"github.com/surveylens/brandcheck/internal/resilience"
)

// DecisionRecord is one audited classification outcome.
type DecisionRecord struct {
	ID string `json:"id"`
	// RequestKey is the content-addressed cache key of the request.
	RequestKey string `json:"request_key"`
	// Mode is "response" or "entity".
	Mode string `json:"mode"`
	// Subject is the respondent text or candidate name, for triage.
	Subject   string         `json:"subject"`
	Decision  model.Decision `json:"decision"`
	CreatedAt time.Time      `json:"created_at"`
}

// DecisionFilter specifies criteria for listing audited decisions.
type DecisionFilter struct {
	Action model.Action `json:"action,omitempty"`
	Mode   string       `json:"mode,omitempty"`
	Limit  int          `json:"limit,omitempty"`
	Offset int          `json:"offset,omitempty"`
}

// DLQFilter specifies criteria for listing dead-letter entries.
type DLQFilter struct {
	ErrorClass string `json:"error_class,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// Store defines the persistence interface for the classification engine.
type Store interface {
	// Decisions
	SaveDecision(ctx context.Context, rec DecisionRecord) error
	GetDecision(ctx context.Context, id string) (*DecisionRecord, error)
	ListDecisions(ctx context.Context, filter DecisionFilter) ([]DecisionRecord, error)

	// Dead-letter queue
	EnqueueDLQ(ctx context.Context, entry resilience.DLQEntry) error
	ListDLQ(ctx context.Context, filter DLQFilter) ([]resilience.DLQEntry, error)
	IncrementDLQRetry(ctx context.Context, id string, nextRetryAt time.Time, lastErr string) error
	RemoveDLQ(ctx context.Context, id string) error
	CountDLQ(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
