package ratelimiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndSetWithoutRedis(t *testing.T) {
	ok, err := CheckAndSet(context.Background(), nil, "otp:send:user@example.com", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTTLWithoutRedis(t *testing.T) {
	ttl, err := TTL(context.Background(), nil, "otp:send:user@example.com")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), ttl)
}

func TestClearWithoutRedis(t *testing.T) {
	assert.NoError(t, Clear(context.Background(), nil, "otp:send:user@example.com"))
}

func TestRateLimitError(t *testing.T) {
	rateErr := &RateLimitError{Message: "please wait before requesting another code", RetryAfter: 30 * time.Second}

	assert.Equal(t, "please wait before requesting another code", rateErr.Error())

	var target *RateLimitError
	wrapped := errors.Join(errors.New("rate limit exceeded"), rateErr)
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, 30*time.Second, target.RetryAfter)
}
