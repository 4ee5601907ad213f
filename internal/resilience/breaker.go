package resilience

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// BreakerState is the state of one provider's circuit breaker.
type BreakerState int

const (
	// StateClosed lets requests through and counts failures.
	StateClosed BreakerState = iota
	// StateOpen rejects requests immediately until the cooldown elapses.
	StateOpen
	// StateHalfOpen lets a single probe through to test recovery.
	StateHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrBreakerOpen is returned when a provider call is rejected because its
// circuit is open.
var ErrBreakerOpen = eris.New("provider circuit open")

// BreakerConfig tunes circuit behavior. Zero values take defaults.
type BreakerConfig struct {
	// FailureThreshold is the consecutive-failure count that opens the
	// circuit. Default 5.
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	// Cooldown is how long the circuit stays open before allowing a probe.
	// Default 30s.
	Cooldown time.Duration `yaml:"cooldown" mapstructure:"cooldown"`
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 30 * time.Second
	}
	return c
}

// Breaker is a circuit breaker for one provider.
type Breaker struct {
	cfg BreakerConfig

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time

	now func() time.Time // injectable for tests
}

// NewBreaker creates a closed breaker.
func NewBreaker(cfg BreakerConfig) *Breaker {
	return &Breaker{cfg: cfg.withDefaults(), state: StateClosed, now: time.Now}
}

// Allow reports whether a call may proceed, transitioning open→half-open
// once the cooldown has elapsed.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
			return ErrBreakerOpen
		}
		b.state = StateHalfOpen
		return nil
	default:
		return nil
	}
}

// Record feeds a call outcome back into the breaker.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil || !IsTransient(err) {
		// Success, or a permanent error that says nothing about provider health.
		if err == nil {
			b.failures = 0
			b.state = StateClosed
		}
		return
	}

	b.failures++
	switch b.state {
	case StateHalfOpen:
		// Failed probe: back to open.
		b.trip()
	case StateClosed:
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	}
}

func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = b.now()
	zap.L().Warn("circuit opened",
		zap.Int("consecutive_failures", b.failures),
		zap.Duration("cooldown", b.cfg.Cooldown),
	)
}

// State returns the current state, accounting for an elapsed cooldown.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
		return StateHalfOpen
	}
	return b.state
}

// BreakerSet holds one breaker per provider name.
type BreakerSet struct {
	mu       sync.Mutex
	cfg      BreakerConfig
	breakers map[string]*Breaker
}

// NewBreakerSet creates a per-provider breaker registry.
func NewBreakerSet(cfg BreakerConfig) *BreakerSet {
	return &BreakerSet{cfg: cfg, breakers: make(map[string]*Breaker)}
}

// Get returns the breaker for a provider, creating it on first use.
func (s *BreakerSet) Get(name string) *Breaker {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.breakers[name]
	if !ok {
		b = NewBreaker(s.cfg)
		s.breakers[name] = b
	}
	return b
}

// States snapshots all breaker states for observability.
func (s *BreakerSet) States() map[string]BreakerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]BreakerState, len(s.breakers))
	for name, b := range s.breakers {
		out[name] = b.State()
	}
	return out
}
