package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	}, WithBaseDelay(time.Millisecond))

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q, want %q", result, "ok")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	final := errors.New("still broken")
	calls := 0
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, final
	}, WithAttempts(4), WithBaseDelay(time.Millisecond))

	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	if !errors.Is(err, final) {
		t.Errorf("err = %v, want the final attempt's error", err)
	}
}

func TestDoDelayDoubles(t *testing.T) {
	base := 10 * time.Millisecond
	calls := 0
	start := time.Now()
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 1, nil
	}, WithBaseDelay(base))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Two failures cost base + 2*base of waiting.
	if elapsed := time.Since(start); elapsed < 3*base {
		t.Errorf("elapsed = %v, want at least %v", elapsed, 3*base)
	}
}

func TestDoFirstTrySuccess(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 42 || calls != 1 {
		t.Errorf("result = %d calls = %d, want 42 and 1", result, calls)
	}
}

func TestDoContextCancelDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("transient")
	}, WithBaseDelay(time.Minute))

	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
