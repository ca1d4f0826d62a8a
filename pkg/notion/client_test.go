package notion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_SatisfiesInterface(t *testing.T) {
	var _ Client = NewClient("test-token")
}

func TestWait_DefaultLimiter(t *testing.T) {
	c := NewClient("test-token").(*notionClient)
	require.NotNil(t, c.limiter)
	assert.NoError(t, c.wait(context.Background()))
}

func TestWithRateLimit_Disabled(t *testing.T) {
	c := NewClient("test-token", WithRateLimit(0)).(*notionClient)
	assert.Nil(t, c.limiter)
	assert.NoError(t, c.wait(context.Background()))
}

func TestWithRateLimit_Custom(t *testing.T) {
	c := NewClient("test-token", WithRateLimit(10)).(*notionClient)
	require.NotNil(t, c.limiter)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, c.wait(context.Background()))
	}
	// Burst allows multiple immediate events at 10 rps.
	assert.Less(t, time.Since(start), time.Second)
}

func TestWait_CancelledContext(t *testing.T) {
	c := NewClient("test-token", WithRateLimit(0.001)).(*notionClient)

	// Drain the single burst token so the next wait must block.
	require.NoError(t, c.wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.wait(ctx))
}
