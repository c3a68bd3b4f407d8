package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitError_MatchesSentinel(t *testing.T) {
	err := &RateLimitError{RetryAfter: 30 * time.Second}

	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.Contains(t, err.Error(), "30s")

	var rle *RateLimitError
	assert.True(t, errors.As(fmt.Errorf("call failed: %w", err), &rle))
	assert.Equal(t, 30*time.Second, rle.RetryAfter)
}

func TestRateLimitError_NoRetryAfter(t *testing.T) {
	err := &RateLimitError{}
	assert.Equal(t, "rate limited", err.Error())
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"structured", &RateLimitError{}, true},
		{"wrapped structured", fmt.Errorf("api: %w", &RateLimitError{}), true},
		{"sentinel", ErrRateLimited, true},
		{"status code text", errors.New("unexpected status 429"), true},
		{"rate text", errors.New("Rate limit exceeded"), true},
		{"too many text", errors.New("Too Many Requests"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimited(tt.err))
		})
	}
}

func TestLearningNote_ContainsNumber(t *testing.T) {
	with := &LearningNote{Content: "speed of sound is 343 m/s"}
	without := &LearningNote{Content: "energy is conserved"}

	assert.True(t, with.ContainsNumber())
	assert.False(t, without.ContainsNumber())
}
