package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls retry with exponential backoff and jitter.
type RetryConfig struct {
	// MaxAttempts counts the first try. 1 disables retries. Default 3.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	// InitialBackoff is the delay before the first retry. Default 500ms.
	InitialBackoff time.Duration `yaml:"initial_backoff" mapstructure:"initial_backoff"`
	// MaxBackoff caps the delay. Default 10s.
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
	// Multiplier scales the delay each attempt. Default 2.0.
	Multiplier float64 `yaml:"multiplier" mapstructure:"multiplier"`
	// JitterFraction randomizes the delay by ±fraction. Default 0.25.
	JitterFraction float64 `yaml:"jitter_fraction" mapstructure:"jitter_fraction"`
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 500 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 10 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
	if c.JitterFraction < 0 {
		c.JitterFraction = 0
	}
	return c
}

// Policy is the single call policy applied to every provider invocation at
// the collector boundary: transient-aware retry inside a per-provider
// circuit breaker. Providers never implement their own retry loops.
type Policy struct {
	retry    RetryConfig
	breakers *BreakerSet
}

// NewPolicy builds a policy from retry and breaker configuration.
func NewPolicy(retry RetryConfig, breaker BreakerConfig) *Policy {
	return &Policy{
		retry:    retry.withDefaults(),
		breakers: NewBreakerSet(breaker),
	}
}

// BreakerStates snapshots circuit states for observability endpoints.
func (p *Policy) BreakerStates() map[string]BreakerState {
	return p.breakers.States()
}

// Call runs fn for the named provider under the policy. Only transient
// errors are retried; context cancellation stops retries immediately; an
// open circuit rejects the call without invoking fn.
func Call[T any](ctx context.Context, p *Policy, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	breaker := p.breakers.Get(name)

	var lastErr error
	for attempt := 0; attempt < p.retry.MaxAttempts; attempt++ {
		if err := breaker.Allow(); err != nil {
			return zero, err
		}

		val, err := fn(ctx)
		breaker.Record(err)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !IsTransient(err) {
			return zero, lastErr
		}
		if attempt >= p.retry.MaxAttempts-1 {
			break
		}

		zap.L().Warn("retrying provider call",
			zap.String("provider", name),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		timer := time.NewTimer(backoffDelay(attempt, p.retry))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}

	return zero, lastErr
}

func backoffDelay(attempt int, cfg RetryConfig) time.Duration {
	delay := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt))
	if delay > float64(cfg.MaxBackoff) {
		delay = float64(cfg.MaxBackoff)
	}
	if cfg.JitterFraction > 0 {
		delay += (rand.Float64()*2 - 1) * delay * cfg.JitterFraction
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}
