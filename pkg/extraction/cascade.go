package extraction

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultAttemptTimeout bounds a single provider attempt.
const DefaultAttemptTimeout = 45 * time.Second

// Cascade tries an ordered list of extraction providers until one yields
// acceptable text. Providers are tried strictly one at a time; the ordering
// encodes the operator's quality/cost/reliability preference. There is no
// per-provider retry and no backoff.
type Cascade struct {
	providers      []Provider
	attemptTimeout time.Duration
}

func NewCascade(providers []Provider) *Cascade {
	return &Cascade{providers: providers, attemptTimeout: DefaultAttemptTimeout}
}

// NewCascadeWithTimeout overrides the per-attempt deadline.
func NewCascadeWithTimeout(providers []Provider, timeout time.Duration) *Cascade {
	return &Cascade{providers: providers, attemptTimeout: timeout}
}

// Run invokes each provider in order and returns the first acceptable result
// tagged with that provider's identity and timing. When every provider fails
// it returns *ExhaustedError carrying the ordered attempt failures. A caller
// deadline on ctx aborts the cascade cleanly between and during attempts.
func (c *Cascade) Run(ctx context.Context, image []byte, mimeType string) (ExtractedText, error) {
	attempts := make([]AttemptFailure, 0, len(c.providers))

	for _, provider := range c.providers {
		if err := ctx.Err(); err != nil {
			return ExtractedText{}, err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
		start := time.Now()
		text, err := provider.Extract(attemptCtx, image, mimeType)
		elapsed := time.Since(start)
		cancel()

		if err != nil {
			// A caller-level cancellation is not a provider failure.
			if ctx.Err() != nil {
				return ExtractedText{}, ctx.Err()
			}
			kind := FailureProviderError
			if errors.Is(err, context.DeadlineExceeded) {
				kind = FailureTimeout
			}
			attempts = append(attempts, AttemptFailure{Provider: provider.Name(), Kind: kind, Err: err})
			continue
		}

		trimmed := strings.TrimSpace(text)
		if len(trimmed) < MinTextLength {
			attempts = append(attempts, AttemptFailure{
				Provider: provider.Name(),
				Kind:     FailureInsufficientOutput,
				Err:      errors.New("provider returned too little text"),
			})
			continue
		}

		// First success wins; later providers are never invoked.
		return ExtractedText{
			Text:        trimmed,
			Provider:    provider.Name(),
			Elapsed:     elapsed,
			ExtractedAt: time.Now(),
			Chars:       len(trimmed),
		}, nil
	}

	return ExtractedText{}, &ExhaustedError{Attempts: attempts}
}
