// Package batch runs many classification requests through the engine with
// bounded concurrency, per-item failure isolation and a dead-letter queue
// for items that could not be classified.
package batch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/surveylens/brandcheck/internal/model"
	"github.com/surveylens/brandcheck/internal/resilience"
	"github.com/surveylens/brandcheck/internal/store"
)

// ResponseClassifier is the slice of the engine the runner needs.
type ResponseClassifier interface {
	ClassifyResponse(ctx context.Context, req model.ResponseRequest) (*model.Decision, error)
}

// Item is one batch input row.
type Item struct {
	Row     int
	Request model.ResponseRequest
}

// Result pairs an item with its outcome. Exactly one of Decision and Err is
// set.
type Result struct {
	Item     Item
	Decision *model.Decision
	Err      error
}

// Summary aggregates a batch run.
type Summary struct {
	Total     int
	Approved  int
	Rejected  int
	Review    int
	FromCache int
	Failed    int
	Duration  time.Duration
}

// Runner executes batches. Store is optional; when set, failed items are
// recorded in the dead-letter queue.
type Runner struct {
	classifier  ResponseClassifier
	store       store.Store
	concurrency int
	maxRetries  int
	log         *zap.Logger
}

// NewRunner builds a runner. Concurrency below 1 defaults to 4.
func NewRunner(classifier ResponseClassifier, st store.Store, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 4
	}
	return &Runner{
		classifier:  classifier,
		store:       st,
		concurrency: concurrency,
		maxRetries:  3,
		log:         zap.L().Named("batch"),
	}
}

// Run classifies all items and returns per-item results in input order plus
// a summary. Item failures never abort the batch. Once cancellation is
// observed no new items start, and results from work still in flight are
// discarded: those items report the cancellation error instead.
func (r *Runner) Run(ctx context.Context, items []Item) ([]Result, Summary) {
	start := time.Now()
	results := make([]Result, len(items))

	var approved, rejected, review, fromCache, failed atomic.Int64
	var dlqMu sync.Mutex

	g := &errgroup.Group{}
	g.SetLimit(r.concurrency)

	for i, item := range items {
		if ctx.Err() != nil {
			r.log.Info("batch cancelled", zap.Int("processed", i), zap.Int("remaining", len(items)-i))
			for j := i; j < len(items); j++ {
				results[j] = Result{Item: items[j], Err: ctx.Err()}
				failed.Add(1)
			}
			break
		}

		g.Go(func() error {
			d, err := r.classifier.ClassifyResponse(ctx, item.Request)
			if ctx.Err() != nil {
				failed.Add(1)
				results[i] = Result{Item: item, Err: ctx.Err()}
				return nil
			}
			if err != nil {
				failed.Add(1)
				results[i] = Result{Item: item, Err: err}
				r.log.Warn("batch item failed",
					zap.Int("row", item.Row),
					zap.Error(err),
				)
				dlqMu.Lock()
				r.deadLetter(ctx, item, err)
				dlqMu.Unlock()
				return nil
			}

			results[i] = Result{Item: item, Decision: d}
			switch d.Action {
			case model.ActionApprove:
				approved.Add(1)
			case model.ActionReject:
				rejected.Add(1)
			case model.ActionReview:
				review.Add(1)
			}
			if d.FromCache {
				fromCache.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, Summary{
		Total:     len(items),
		Approved:  int(approved.Load()),
		Rejected:  int(rejected.Load()),
		Review:    int(review.Load()),
		FromCache: int(fromCache.Load()),
		Failed:    int(failed.Load()),
		Duration:  time.Since(start),
	}
}

func (r *Runner) deadLetter(ctx context.Context, item Item, cause error) {
	if r.store == nil {
		return
	}
	entry := resilience.DLQEntry{
		ID:          uuid.NewString(),
		RequestKey:  item.Request.CacheKey(),
		Subject:     item.Request.Text,
		Error:       cause.Error(),
		ErrorClass:  resilience.ClassifyError(cause),
		MaxRetries:  r.maxRetries,
		NextRetryAt: time.Now().UTC().Add(5 * time.Minute),
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.store.EnqueueDLQ(ctx, entry); err != nil {
		r.log.Warn("dead-letter enqueue failed", zap.Int("row", item.Row), zap.Error(err))
	}
}
