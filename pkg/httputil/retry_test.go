package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("404 not found")

	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return permanent
	})

	if !errors.Is(err, permanent) {
		t.Fatalf("Retry error = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("permanent error retried %d times, want 1 call", calls)
	}
}

func TestRetryRetriesRetryableError(t *testing.T) {
	calls := 0

	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("503"))
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Retry error = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return Retryable(errors.New("timeout"))
	})

	if err == nil {
		t.Fatal("Retry should return the last error after exhausting attempts")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 5, time.Minute, func() error {
		return Retryable(errors.New("network"))
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry error = %v, want context.Canceled", err)
	}
}

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}
