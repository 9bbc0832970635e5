package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTest = errors.New("test error")

func fastRetrier() *ExponentialRetrier {
	return NewExponentialRetrier(WithBackOffOptions(
		WithInitialInterval(time.Millisecond),
		WithMaxInterval(2*time.Millisecond),
		WithMaxElapsedTime(50*time.Millisecond),
	))
}

func TestExponentialRetrierSucceedsImmediately(t *testing.T) {
	r := fastRetrier()
	if err := r.RetryWithBackoff(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("RetryWithBackoff: %v", err)
	}
}

func TestExponentialRetrierSucceedsAfterRetries(t *testing.T) {
	r := fastRetrier()
	attempts := 0
	err := r.RetryWithBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errTest
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RetryWithBackoff: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestExponentialRetrierGivesUpAfterMaxElapsedTime(t *testing.T) {
	r := fastRetrier()
	attempts := 0
	err := r.RetryWithBackoff(context.Background(), func() error {
		attempts++
		return errTest
	})
	if err == nil {
		t.Fatal("expected an error after max elapsed time")
	}
	if attempts < 2 {
		t.Errorf("attempts = %d, want at least 2", attempts)
	}
}

func TestExponentialRetrierRespectsContextCancellation(t *testing.T) {
	r := fastRetrier()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.RetryWithBackoff(ctx, func() error { return errTest })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestTypedRetrierReturnsValueOnSuccess(t *testing.T) {
	typed := NewTypedRetrier[string](fastRetrier())
	result, err := typed.RetryWithBackoff(context.Background(), func() (string, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("RetryWithBackoff: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %q, want %q", result, "ok")
	}
}

func TestTypedRetrierPropagatesFailure(t *testing.T) {
	typed := NewTypedRetrier[string](fastRetrier())
	_, err := typed.RetryWithBackoff(context.Background(), func() (string, error) {
		return "", errTest
	})
	if !errors.Is(err, errTest) {
		t.Errorf("err = %v, want errTest", err)
	}
}

func TestWithNotifyIsCalledOnFailure(t *testing.T) {
	notified := 0
	r := NewExponentialRetrier(
		WithBackOffOptions(
			WithInitialInterval(time.Millisecond),
			WithMaxInterval(2*time.Millisecond),
			WithMaxElapsedTime(50*time.Millisecond),
		),
		WithNotify(func(err error, duration, total time.Duration) {
			notified++
		}),
	)
	attempts := 0
	_ = r.RetryWithBackoff(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return errTest
		}
		return nil
	})
	if notified == 0 {
		t.Error("notify callback was never called")
	}
}
