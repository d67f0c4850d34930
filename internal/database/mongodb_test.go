package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectWithRetryGivesUp(t *testing.T) {
	_, err := ConnectWithRetry(context.Background(), "not-a-mongo-uri", time.Second, 2, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "giving up after 2 attempts")
}

func TestConnectWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ConnectWithRetry(ctx, "not-a-mongo-uri", time.Second, 3, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
}
