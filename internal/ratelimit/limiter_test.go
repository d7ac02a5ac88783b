package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewUnlimited(t *testing.T) {
	l := New("test", 0)
	for range 100 {
		require.True(t, l.Allow())
	}
	require.Equal(t, "test", l.Name())
}

func TestWaitRespectsBurst(t *testing.T) {
	l := New("burst", 2)
	require.True(t, l.Allow())
	require.True(t, l.Allow())
	require.False(t, l.Allow())
}

func TestWaitCancelled(t *testing.T) {
	l := New("slow", 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limit wait for slow")
}
