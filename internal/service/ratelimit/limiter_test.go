package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowConsumesBurst(t *testing.T) {
	l := New(3, 0.001) // effectively no refill within the test
	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("token %d should be available", i)
		}
	}
	if l.Allow() {
		t.Fatalf("bucket should be empty after burst")
	}
}

func TestWaitHonorsContext(t *testing.T) {
	l := New(1, 0.001)
	l.Allow() // drain

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Fatalf("expected context deadline error")
	}
}

func TestRefill(t *testing.T) {
	l := New(1, 100) // 100 tokens/sec
	l.Allow()
	time.Sleep(30 * time.Millisecond)
	if !l.Allow() {
		t.Fatalf("bucket should have refilled")
	}
}
