package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhausts(t *testing.T) {
	bucket := NewTokenBucket(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := bucket.Allow()
		assert.True(t, allowed, "attempt %d", i)
	}

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
}

func TestTokenBucketRefills(t *testing.T) {
	bucket := NewTokenBucket(1, 1, 10*time.Millisecond)

	allowed, _ := bucket.Allow()
	assert.True(t, allowed)

	allowed, _ = bucket.Allow()
	assert.False(t, allowed)

	time.Sleep(15 * time.Millisecond)

	allowed, _ = bucket.Allow()
	assert.True(t, allowed)
}

func TestActionsHaveIndependentBuckets(t *testing.T) {
	limiter := NewRateLimiter()

	// Drain the payment bucket.
	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("pay_bill")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("pay_bill")
	assert.False(t, allowed)

	// Sending messages is unaffected.
	allowed, _ = limiter.Allow("send_message")
	assert.True(t, allowed)
}

func TestCleanupDropsStaleBuckets(t *testing.T) {
	limiter := NewRateLimiter()
	limiter.Allow("send_message")

	limiter.mutex.Lock()
	limiter.buckets["send_message"].lastRefill = time.Now().Add(-2 * time.Hour)
	limiter.mutex.Unlock()

	limiter.Cleanup()

	limiter.mutex.RLock()
	_, exists := limiter.buckets["send_message"]
	limiter.mutex.RUnlock()
	assert.False(t, exists)
}
