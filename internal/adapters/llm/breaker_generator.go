// Package llm wires text generators behind a circuit breaker.
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/zatekoja/medicalnetwork/internal/domain/providers"
)

// BreakerSettings configures BreakerGenerator
type BreakerSettings struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the breaker
	MaxFailures int
	// OpenTimeout is how long the breaker stays open before a trial request
	OpenTimeout time.Duration
	// Timeout bounds a single Generate call; zero leaves it to the client
	Timeout time.Duration
}

// BreakerGenerator stops calling a failing generator for a while so request
// handlers fall back to local results without waiting on timeouts.
type BreakerGenerator struct {
	next    providers.TextGenerator
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewBreakerGenerator wraps next with a circuit breaker
func NewBreakerGenerator(next providers.TextGenerator, settings BreakerSettings) *BreakerGenerator {
	maxFailures := settings.MaxFailures
	if maxFailures <= 0 {
		maxFailures = 5
	}
	name := settings.Name
	if name == "" {
		name = "text-generator"
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Text generator breaker state changed")
		},
	})

	return &BreakerGenerator{next: next, breaker: cb, timeout: settings.Timeout}
}

// Generate calls the wrapped generator unless the breaker is open, in which
// case it fails fast with providers.ErrGeneratorUnavailable.
func (g *BreakerGenerator) Generate(ctx context.Context, prompt string, attachments []providers.Attachment) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.Generate(ctx, prompt, attachments)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", errors.Join(providers.ErrGeneratorUnavailable, err)
	}
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State reports the breaker state for health output
func (g *BreakerGenerator) State() string {
	return g.breaker.State().String()
}
