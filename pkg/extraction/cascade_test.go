package extraction

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProvider struct {
	name  string
	text  string
	err   error
	delay time.Duration
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Extract(ctx context.Context, image []byte, mimeType string) (string, error) {
	p.calls++
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if p.err != nil {
		return "", p.err
	}
	return p.text, nil
}

const goodText = "WARUNG SARI\nMains\nNasi Goreng ... 35000\nGado Gado ... 28000"

func TestCascadeFirstSuccessStopsChain(t *testing.T) {
	first := &fakeProvider{name: "primary", text: goodText}
	second := &fakeProvider{name: "secondary", text: goodText}
	cascade := NewCascade([]Provider{first, second})

	result, err := cascade.Run(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if result.Provider != "primary" {
		t.Fatalf("expected primary, got %s", result.Provider)
	}
	if result.Text != goodText {
		t.Fatalf("unexpected text: %q", result.Text)
	}
	if second.calls != 0 {
		t.Fatal("secondary provider was invoked after primary succeeded")
	}
}

func TestCascadeFallsThroughToLaterProvider(t *testing.T) {
	first := &fakeProvider{name: "primary", err: errors.New("api quota exceeded")}
	second := &fakeProvider{name: "secondary", text: "   "}
	third := &fakeProvider{name: "tertiary", text: "  " + goodText + "  "}
	cascade := NewCascade([]Provider{first, second, third})

	result, err := cascade.Run(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if result.Provider != "tertiary" {
		t.Fatalf("expected tertiary, got %s", result.Provider)
	}
	if result.Text != goodText {
		t.Fatalf("expected trimmed text, got %q", result.Text)
	}
	if result.Chars != len(goodText) {
		t.Fatalf("expected %d chars, got %d", len(goodText), result.Chars)
	}
}

func TestCascadeExhaustionRecordsOrderedFailures(t *testing.T) {
	first := &fakeProvider{name: "primary", err: errors.New("bad gateway")}
	second := &fakeProvider{name: "secondary", text: "too short"}
	cascade := NewCascade([]Provider{first, second})

	_, err := cascade.Run(context.Background(), []byte("img"), "image/jpeg")
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if len(exhausted.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(exhausted.Attempts))
	}
	if exhausted.Attempts[0].Provider != "primary" || exhausted.Attempts[0].Kind != FailureProviderError {
		t.Fatalf("unexpected first attempt: %+v", exhausted.Attempts[0])
	}
	if exhausted.Attempts[1].Provider != "secondary" || exhausted.Attempts[1].Kind != FailureInsufficientOutput {
		t.Fatalf("unexpected second attempt: %+v", exhausted.Attempts[1])
	}
}

func TestCascadeAttemptTimeoutMovesOn(t *testing.T) {
	slow := &fakeProvider{name: "slow", text: goodText, delay: 200 * time.Millisecond}
	fast := &fakeProvider{name: "fast", text: goodText}
	cascade := NewCascadeWithTimeout([]Provider{slow, fast}, 20*time.Millisecond)

	result, err := cascade.Run(context.Background(), []byte("img"), "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if result.Provider != "fast" {
		t.Fatalf("expected fast, got %s", result.Provider)
	}
}

func TestCascadeTimeoutKindRecorded(t *testing.T) {
	slow := &fakeProvider{name: "slow", text: goodText, delay: 200 * time.Millisecond}
	cascade := NewCascadeWithTimeout([]Provider{slow}, 20*time.Millisecond)

	_, err := cascade.Run(context.Background(), []byte("img"), "image/jpeg")
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if exhausted.Attempts[0].Kind != FailureTimeout {
		t.Fatalf("expected timeout kind, got %s", exhausted.Attempts[0].Kind)
	}
}

func TestCascadeCallerCancellationAborts(t *testing.T) {
	slow := &fakeProvider{name: "slow", text: goodText, delay: 200 * time.Millisecond}
	next := &fakeProvider{name: "next", text: goodText}
	cascade := NewCascade([]Provider{slow, next})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := cascade.Run(ctx, []byte("img"), "image/jpeg")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected caller deadline error, got %v", err)
	}
	if next.calls != 0 {
		t.Fatal("cascade continued past caller cancellation")
	}
}

func TestCascadeNoProviders(t *testing.T) {
	cascade := NewCascade(nil)

	_, err := cascade.Run(context.Background(), []byte("img"), "image/jpeg")
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if len(exhausted.Attempts) != 0 {
		t.Fatalf("expected no attempts, got %d", len(exhausted.Attempts))
	}
}
