package errors

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTooManyRequestsIncludesWait(t *testing.T) {
	err := TooManyRequests("Slow down.", 42*time.Second)
	assert.Equal(t, "TOO_MANY_REQUESTS", err.Code)
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.Contains(t, err.Message, "Try again in 42s")

	// Sub-second windows round up so the hint is never "0s".
	err = TooManyRequests("Slow down.", 200*time.Millisecond)
	assert.Contains(t, err.Message, "Try again in 1s")

	err = TooManyRequests("Slow down.", 0)
	assert.Equal(t, "Slow down.", err.Message)
}

func TestUpstreamKeepsServerMessage(t *testing.T) {
	err := Upstream("Bill already paid", http.StatusUnprocessableEntity, nil)
	assert.Equal(t, "UPSTREAM_ERROR", err.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.Equal(t, "Bill already paid", err.Message)

	// Sub-4xx statuses make no sense on an error; floor at 502.
	err = Upstream("", 0, nil)
	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.NotEmpty(t, err.Message)
}

func TestIsMatchesCode(t *testing.T) {
	assert.True(t, Is(NotFound("Bill", nil), "NOT_FOUND"))
	assert.False(t, Is(NotFound("Bill", nil), "CONFLICT"))
	assert.False(t, Is(nil, "NOT_FOUND"))
}
