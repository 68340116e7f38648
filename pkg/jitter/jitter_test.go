package jitter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDurationWith(t *testing.T) {
	assert.Equal(t, time.Second, durationWith(time.Second, 0.5, func() float64 { return 0 }))
	assert.Equal(t, 1500*time.Millisecond, durationWith(time.Second, 0.5, func() float64 { return 1 }))
	assert.Equal(t, time.Second, durationWith(time.Second, 0, func() float64 { return 1 }))
	assert.Equal(t, time.Duration(0), durationWith(0, 0.5, func() float64 { return 1 }))
}

func TestDuration_Range(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := Duration(100*time.Millisecond, DefaultJitter)
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestBackoff_Growth(t *testing.T) {
	b := NewBackoff(time.Second, 5*time.Second)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 5 * time.Second},
		{30, 5 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.base(tt.attempt), "attempt %d", tt.attempt)

		d := b.Delay(tt.attempt)
		assert.GreaterOrEqual(t, d, tt.want)
		assert.LessOrEqual(t, d, tt.want+tt.want/2)
	}
}

func TestBackoff_NoMax(t *testing.T) {
	b := Backoff{Base: time.Millisecond}
	assert.Equal(t, 8*time.Millisecond, b.base(3))
	assert.Equal(t, 8*time.Millisecond, b.Delay(3))
}

func TestBackoff_Wait(t *testing.T) {
	b := Backoff{Base: time.Millisecond, Max: time.Millisecond}
	assert.NoError(t, b.Wait(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Backoff{Base: time.Hour}.Wait(ctx, 0), context.Canceled)
}
