package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ExtractionPrompt is the fixed instruction sent to every vision provider in
// the cascade. Changing it changes provider output, so it is deliberately a
// single shared constant rather than per-provider text.
const ExtractionPrompt = `You are reading a photograph of a restaurant menu.
Transcribe ALL text visible on the menu exactly as printed: restaurant name,
location, section headings, dish names, descriptions, prices and any dietary
markings. Preserve the reading order of the menu. Do not summarize, do not
translate, do not add commentary. Return plain text only.`

// MinTextLength is the minimum trimmed length a provider response must have
// to count as a successful extraction.
const MinTextLength = 20

// Attempt failure kinds.
const (
	FailureTimeout            = "timeout"
	FailureProviderError      = "provider_error"
	FailureInsufficientOutput = "insufficient_output"
)

type (
	// Provider is one vision extraction capability in the cascade.
	Provider interface {
		Name() string
		Extract(ctx context.Context, image []byte, mimeType string) (string, error)
	}

	// ExtractedText is a provider-attributed extraction result. Immutable
	// once produced.
	ExtractedText struct {
		Text        string
		Provider    string
		Elapsed     time.Duration
		ExtractedAt time.Time
		Chars       int
	}

	// AttemptFailure records one failed provider attempt for diagnostics.
	AttemptFailure struct {
		Provider string
		Kind     string
		Err      error
	}

	// ExhaustedError is returned when every provider in the cascade failed.
	// It carries the ordered list of attempt failures.
	ExhaustedError struct {
		Attempts []AttemptFailure
	}
)

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s(%s): %v", a.Provider, a.Kind, a.Err))
	}
	return "extraction exhausted: " + strings.Join(parts, "; ")
}
