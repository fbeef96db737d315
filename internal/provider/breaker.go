package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig holds the circuit breaker tuning knobs.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that trip the
	// circuit. Zero means the default (3).
	MaxFailures uint32 `yaml:"max_failures"`

	// OpenTimeout is how long the circuit stays open before allowing
	// probe requests. Zero means the default (30s).
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

func (c *BreakerConfig) defaults() {
	if c.MaxFailures == 0 {
		c.MaxFailures = 3
	}
	if c.OpenTimeout == 0 {
		c.OpenTimeout = 30 * time.Second
	}
}

// Breaker wraps a Provider in a circuit breaker. After MaxFailures
// consecutive failures the circuit opens and calls fail fast with
// ErrProviderDown instead of waiting on a dead endpoint; after OpenTimeout
// a probe request is let through and a success closes the circuit again.
type Breaker struct {
	inner   Provider
	breaker *gobreaker.CircuitBreaker
}

// Compile-time interface check.
var _ Provider = (*Breaker)(nil)

// NewBreaker wraps the given provider.
func NewBreaker(inner Provider, cfg BreakerConfig) *Breaker {
	cfg.defaults()
	return &Breaker{
		inner: inner,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "completion",
			Timeout: cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.MaxFailures
			},
		}),
	}
}

// ModelName implements Provider.
func (b *Breaker) ModelName() string { return b.inner.ModelName() }

// Complete implements Provider, routing the call through the breaker.
func (b *Breaker) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	result, err := b.breaker.Execute(func() (any, error) {
		return b.inner.Complete(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return CompletionResponse{}, fmt.Errorf("%w: circuit open", ErrProviderDown)
		}
		return CompletionResponse{}, err
	}
	return result.(CompletionResponse), nil
}
