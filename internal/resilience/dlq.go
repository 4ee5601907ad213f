package resilience

import "time"

// DLQEntry records a batch item whose classification failed, so analysts
// can inspect and re-run it later.
type DLQEntry struct {
	ID          string    `json:"id"`
	RequestKey  string    `json:"request_key"`
	Subject     string    `json:"subject"` // respondent text or candidate name
	Error       string    `json:"error"`
	ErrorClass  string    `json:"error_class"` // "transient" or "permanent"
	RetryCount  int       `json:"retry_count"`
	MaxRetries  int       `json:"max_retries"`
	NextRetryAt time.Time `json:"next_retry_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// CanRetry reports whether the entry still has retry budget.
func (e *DLQEntry) CanRetry() bool {
	return e.RetryCount < e.MaxRetries
}

// ClassifyError buckets an error for DLQ triage.
func ClassifyError(err error) string {
	if IsTransient(err) {
		return "transient"
	}
	return "permanent"
}
