package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlidingWindow(t *testing.T) {
	sw := NewSlidingWindow(3, time.Second)

	// Test initial requests
	for i := 0; i < 3; i++ {
		if !sw.Allow() {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	// Test limit reached
	if sw.Allow() {
		t.Error("Expected request to be denied when limit is reached")
	}

	// Test window sliding
	time.Sleep(time.Second + 100*time.Millisecond)
	if !sw.Allow() {
		t.Error("Expected request to be allowed after window slides")
	}
}

func TestSlidingWindowRetryAfter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sw := NewSlidingWindow(2, time.Minute)
	sw.now = func() time.Time { return now }

	assert.Zero(t, sw.RetryAfter())
	assert.True(t, sw.Allow())

	now = now.Add(10 * time.Second)
	assert.True(t, sw.Allow())
	assert.False(t, sw.Allow())
	assert.Equal(t, 50*time.Second, sw.RetryAfter())

	now = now.Add(50 * time.Second)
	assert.Zero(t, sw.RetryAfter())
	assert.True(t, sw.Allow())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(8, 1, time.Minute)

	assert.True(t, r.Allow("a"))
	assert.False(t, r.Allow("a"))
	assert.True(t, r.Allow("b"), "keys are limited independently")

	assert.Same(t, r.Get("a"), r.Get("a"))
	assert.Positive(t, r.Get("a").RetryAfter())
	assert.Zero(t, r.Get("b2").RetryAfter())
}
