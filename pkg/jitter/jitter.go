// Package jitter считает задержки между повторами: экспонента со случайной добавкой,
// чтобы одновременно упавшие клиенты не повторяли запрос в один и тот же момент.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter: добавка до 50% от базовой задержки.
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMutex  sync.Mutex
)

// Duration возвращает d плюс случайную добавку из [0, d*factor).
func Duration(d time.Duration, factor float64) time.Duration {
	if d <= 0 || factor <= 0 {
		return d
	}

	randMutex.Lock()
	extra := globalRand.Float64() * factor * float64(d)
	randMutex.Unlock()

	return d + time.Duration(extra)
}

// Backoff: экспоненциальная задержка, ограниченная сверху Max (до добавки).
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
}

func NewBackoff(base, max time.Duration) Backoff {
	return Backoff{Base: base, Max: max, Factor: DefaultJitter}
}

// Delay: задержка перед повтором номер attempt (с нуля): Base*2^attempt, не больше Max.
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Base
	for i := 0; i < attempt && (b.Max <= 0 || d < b.Max); i++ {
		d *= 2
	}
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}

	return Duration(d, b.Factor)
}
