package geocode

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"health-tracker/internal/metrics"
)

// Circuit states.
const (
	StateClosed   = "closed"
	StateOpen     = "open"
	StateHalfOpen = "half_open"
)

// BreakerConfig controls when the breaker opens and how it recovers.
type BreakerConfig struct {
	FailureThreshold int           // consecutive failures that open the circuit
	Cooldown         time.Duration // time spent open before retrying the geocoder
	RecoveryCount    int           // consecutive half_open successes that close it
}

// DefaultBreakerConfig is used for any zero field.
var DefaultBreakerConfig = BreakerConfig{
	FailureThreshold: 5,
	Cooldown:         30 * time.Second,
	RecoveryCount:    2,
}

// BreakingGeocoder stops calling an unhealthy geocoder for a cooldown period.
// While open every lookup fails immediately, so callers fall back to
// coordinate labels without waiting out the request timeout.
type BreakingGeocoder struct {
	inner  Geocoder
	cfg    BreakerConfig
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	state     string
	failures  int
	successes int
	closesAt  time.Time
}

// NewBreakingGeocoder wraps inner with a circuit breaker.
func NewBreakingGeocoder(inner Geocoder, cfg BreakerConfig, logger *slog.Logger) *BreakingGeocoder {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultBreakerConfig.FailureThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultBreakerConfig.Cooldown
	}
	if cfg.RecoveryCount <= 0 {
		cfg.RecoveryCount = DefaultBreakerConfig.RecoveryCount
	}
	if logger == nil {
		logger = slog.Default()
	}
	metrics.GeocodeCircuitState.Set(0)
	return &BreakingGeocoder{
		inner:  inner,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		state:  StateClosed,
	}
}

// State returns the current circuit state.
func (b *BreakingGeocoder) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance()
	return b.state
}

// Lookup implements Geocoder.
func (b *BreakingGeocoder) Lookup(ctx context.Context, lat, lng float64) (string, bool) {
	b.mu.Lock()
	b.advance()
	if b.state == StateOpen {
		b.mu.Unlock()
		metrics.GeocodeCircuitSkippedTotal.Inc()
		return "", false
	}
	b.mu.Unlock()

	name, ok := b.inner.Lookup(ctx, lat, lng)

	b.mu.Lock()
	defer b.mu.Unlock()
	if ok {
		b.recordSuccess()
	} else if ctx.Err() == nil {
		// A cancelled caller says nothing about the geocoder
		b.recordFailure()
	}
	return name, ok
}

// advance moves an open circuit to half_open once the cooldown has elapsed.
// Callers must hold mu.
func (b *BreakingGeocoder) advance() {
	if b.state == StateOpen && !b.now().Before(b.closesAt) {
		b.logger.Info("Geocoder cooldown elapsed, transitioning to half_open")
		b.state = StateHalfOpen
		b.successes = 0
		metrics.GeocodeCircuitState.Set(1)
	}
}

func (b *BreakingGeocoder) recordSuccess() {
	b.failures = 0
	if b.state != StateHalfOpen {
		return
	}
	b.successes++
	if b.successes >= b.cfg.RecoveryCount {
		b.logger.Info("Geocoder recovered after consecutive successes", "successes", b.successes)
		b.state = StateClosed
		b.successes = 0
		metrics.GeocodeCircuitState.Set(0)
		metrics.GeocodeCircuitRecoveredTotal.Inc()
	}
}

func (b *BreakingGeocoder) recordFailure() {
	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.cfg.FailureThreshold {
		b.open()
	}
}

func (b *BreakingGeocoder) open() {
	b.state = StateOpen
	b.closesAt = b.now().Add(b.cfg.Cooldown)
	b.failures = 0
	b.successes = 0
	metrics.GeocodeCircuitState.Set(2)
	metrics.GeocodeCircuitOpenedTotal.Inc()
	b.logger.Warn("Geocoder failing, opening circuit breaker",
		"cooldown", b.cfg.Cooldown,
		"closes_at", b.closesAt)
}
