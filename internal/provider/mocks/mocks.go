// Package mocks provides hand-written provider fakes with call counters
// for collector and engine tests.
package mocks

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/surveylens/brandcheck/internal/model"
	"github.com/surveylens/brandcheck/internal/provider"
)

// Vision is a configurable VisionProvider fake.
type Vision struct {
	Result *provider.VisionResult
	Err    error
	Delay  time.Duration

	calls atomic.Int64
}

func (v *Vision) Analyze(ctx context.Context, images []string, candidateText string) (*provider.VisionResult, error) {
	v.calls.Add(1)
	if err := wait(ctx, v.Delay); err != nil {
		return nil, err
	}
	if v.Err != nil {
		return nil, v.Err
	}
	return v.Result, nil
}

// Calls returns how many times Analyze was invoked.
func (v *Vision) Calls() int { return int(v.calls.Load()) }

// Search is a configurable SearchAnalyzer fake.
type Search struct {
	Result *provider.SearchAnalysis
	Err    error
	Delay  time.Duration

	calls atomic.Int64
}

func (s *Search) Analyze(ctx context.Context, query string, results []model.SearchResult, opts provider.SearchOptions) (*provider.SearchAnalysis, error) {
	s.calls.Add(1)
	if err := wait(ctx, s.Delay); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Result, nil
}

// Calls returns how many times Analyze was invoked.
func (s *Search) Calls() int { return int(s.calls.Load()) }

// KnownEntity is a configurable KnownEntityProvider fake.
type KnownEntity struct {
	Result *provider.EntityMatch
	Err    error
	Delay  time.Duration

	calls atomic.Int64
}

func (k *KnownEntity) FuzzyMatch(ctx context.Context, name string) (*provider.EntityMatch, error) {
	k.calls.Add(1)
	if err := wait(ctx, k.Delay); err != nil {
		return nil, err
	}
	if k.Err != nil {
		return nil, k.Err
	}
	return k.Result, nil
}

// Calls returns how many times FuzzyMatch was invoked.
func (k *KnownEntity) Calls() int { return int(k.calls.Load()) }

// Embedding is a configurable EmbeddingProvider fake.
type Embedding struct {
	Score float64
	Err   error
	Delay time.Duration

	calls atomic.Int64
}

func (e *Embedding) Similarity(ctx context.Context, text string, referenceSet []string) (float64, error) {
	e.calls.Add(1)
	if err := wait(ctx, e.Delay); err != nil {
		return 0, err
	}
	if e.Err != nil {
		return 0, e.Err
	}
	return e.Score, nil
}

// Calls returns how many times Similarity was invoked.
func (e *Embedding) Calls() int { return int(e.calls.Load()) }

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
