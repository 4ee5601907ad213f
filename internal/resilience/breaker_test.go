package resilience

import (
	"errors"
	"testing"
	"time"
)

func transientErr() error {
	return Transient(errors.New("upstream 503"), 503)
}

func TestBreaker_StaysClosedOnSuccess(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 2})

	if err := b.Allow(); err != nil {
		t.Fatalf("unexpected allow error: %v", err)
	}
	b.Record(nil)

	if got := b.State(); got != StateClosed {
		t.Errorf("expected closed, got %s", got)
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		b.Record(transientErr())
	}

	if got := b.State(); got != StateOpen {
		t.Fatalf("expected open after 3 failures, got %s", got)
	}
	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Errorf("expected ErrBreakerOpen, got %v", err)
	}
}

func TestBreaker_PermanentErrorsDoNotTrip(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 2, Cooldown: time.Minute})

	for i := 0; i < 5; i++ {
		_ = b.Allow()
		b.Record(errors.New("bad request"))
	}

	if got := b.State(); got != StateClosed {
		t.Errorf("expected closed after permanent errors, got %s", got)
	}
}

func TestBreaker_HalfOpenProbeRecovers(t *testing.T) {
	now := time.Now()
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, Cooldown: 100 * time.Millisecond})
	b.now = func() time.Time { return now }

	_ = b.Allow()
	b.Record(transientErr())
	if got := b.State(); got != StateOpen {
		t.Fatalf("expected open, got %s", got)
	}

	// Advance past cooldown: probe is allowed.
	b.now = func() time.Time { return now.Add(200 * time.Millisecond) }
	if got := b.State(); got != StateHalfOpen {
		t.Fatalf("expected half-open, got %s", got)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be allowed: %v", err)
	}

	b.Record(nil)
	if got := b.State(); got != StateClosed {
		t.Errorf("expected closed after successful probe, got %s", got)
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	now := time.Now()
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, Cooldown: 100 * time.Millisecond})
	b.now = func() time.Time { return now }

	_ = b.Allow()
	b.Record(transientErr())

	b.now = func() time.Time { return now.Add(200 * time.Millisecond) }
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be allowed: %v", err)
	}
	b.Record(transientErr())

	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Errorf("expected reopened circuit, got %v", err)
	}
}

func TestBreakerSet_PerProviderIsolation(t *testing.T) {
	set := NewBreakerSet(BreakerConfig{FailureThreshold: 1, Cooldown: time.Minute})

	vision := set.Get("vision")
	_ = vision.Allow()
	vision.Record(transientErr())

	if err := set.Get("vision").Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Errorf("vision breaker should be open, got %v", err)
	}
	if err := set.Get("search").Allow(); err != nil {
		t.Errorf("search breaker should be unaffected, got %v", err)
	}

	states := set.States()
	if states["vision"] != StateOpen || states["search"] != StateClosed {
		t.Errorf("unexpected states: %v", states)
	}
}
