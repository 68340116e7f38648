// Package jitter считает задержки повторов со случайной добавкой,
// чтобы одновременно упавшие клиенты не возвращались все в один момент.
package jitter

import (
	"context"
	"math/rand/v2"
	"time"
)

// DefaultJitter — добавка до 50% к задержке.
const DefaultJitter = 0.5

// Duration возвращает d плюс случайная добавка. Результат лежит в [d, d*(1+factor)].
func Duration(d time.Duration, factor float64) time.Duration {
	return durationWith(d, factor, rand.Float64)
}

func durationWith(d time.Duration, factor float64, rnd func() float64) time.Duration {
	if d <= 0 || factor <= 0 {
		return d
	}

	return d + time.Duration(rnd()*factor*float64(d))
}

// Backoff — экспоненциальная задержка: Base, 2*Base, 4*Base... но не больше Max, плюс jitter.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
}

// NewBackoff возвращает Backoff с DefaultJitter.
func NewBackoff(base, max time.Duration) Backoff {
	return Backoff{Base: base, Max: max, Factor: DefaultJitter}
}

// Delay — задержка перед повтором номер attempt (с нуля).
func (b Backoff) Delay(attempt int) time.Duration {
	return durationWith(b.base(attempt), b.Factor, rand.Float64)
}

func (b Backoff) base(attempt int) time.Duration {
	d := b.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}

	if b.Max > 0 && d > b.Max {
		return b.Max
	}

	return d
}

// Wait ждет Delay(attempt). Возвращает ctx.Err(), если контекст отменили раньше.
func (b Backoff) Wait(ctx context.Context, attempt int) error {
	t := time.NewTimer(b.Delay(attempt))
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
