package middleware

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerOpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("pos", 3, 50*time.Millisecond)
	boom := errors.New("downstream failed")

	for i := 0; i < 3; i++ {
		if cb.GetState() != StateClosed {
			t.Fatalf("state before failure %d = %s, want closed", i+1, cb.GetState())
		}
		_ = cb.Call(func() error { return boom })
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("state after 3 failures = %s, want open", cb.GetState())
	}

	// While open, calls are rejected without running the function.
	ran := false
	err := cb.Call(func() error { ran = true; return nil })
	if err == nil {
		t.Error("Call on open circuit returned nil error")
	}
	if ran {
		t.Error("function executed while circuit was open")
	}
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("pos", 1, 10*time.Millisecond)
	_ = cb.Call(func() error { return errors.New("boom") })
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %s, want open", cb.GetState())
	}

	time.Sleep(20 * time.Millisecond)

	// First call after the timeout probes in half-open; three successes
	// close the circuit again.
	for i := 0; i < 3; i++ {
		if err := cb.Call(func() error { return nil }); err != nil {
			t.Fatalf("probe call %d: %v", i+1, err)
		}
	}
	if cb.GetState() != StateClosed {
		t.Fatalf("state after recovery = %s, want closed", cb.GetState())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("pos", 1, 10*time.Millisecond)
	_ = cb.Call(func() error { return errors.New("boom") })
	time.Sleep(20 * time.Millisecond)

	_ = cb.Call(func() error { return errors.New("still broken") })
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %s, want reopened", cb.GetState())
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("pos", 2, time.Second)
	boom := errors.New("boom")

	_ = cb.Call(func() error { return boom })
	_ = cb.Call(func() error { return nil })
	_ = cb.Call(func() error { return boom })

	if cb.GetState() != StateClosed {
		t.Fatalf("state = %s, want closed (non-consecutive failures)", cb.GetState())
	}
}

func TestDetermineServiceFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/api/sales", "pos"},
		{"/api/products/3", "pos"},
		{"/api/users/login", "pos"},
		{"/health", ""},
		{"/", ""},
		{"/metrics", ""},
	}
	for _, tc := range cases {
		if got := determineServiceFromPath(tc.path); got != tc.want {
			t.Errorf("determineServiceFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
