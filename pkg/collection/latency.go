package collection

import (
	"context"
	"math/rand/v2"
	"time"
)

// Latency simulates backend round-trip time. It returns ctx.Err() when the
// wait is cut short.
type Latency func(ctx context.Context) error

// NoDelay returns immediately.
func NoDelay(ctx context.Context) error {
	return ctx.Err()
}

// Fixed waits exactly d.
func Fixed(d time.Duration) Latency {
	return func(ctx context.Context) error {
		return sleep(ctx, d)
	}
}

// Random waits a uniformly random duration in [min, max].
func Random(min, max time.Duration) Latency {
	if max < min {
		min, max = max, min
	}
	return func(ctx context.Context) error {
		d := min
		if span := max - min; span > 0 {
			d += time.Duration(rand.Int64N(int64(span) + 1))
		}
		return sleep(ctx, d)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Latencies configures the delay per operation kind.
type Latencies struct {
	Fetch  Latency
	Add    Latency
	Update Latency
	Delete Latency
}

// Uniform uses l for every operation.
func Uniform(l Latency) Latencies {
	return Latencies{Fetch: l, Add: l, Update: l, Delete: l}
}

func (l Latencies) withDefaults() Latencies {
	if l.Fetch == nil {
		l.Fetch = NoDelay
	}
	if l.Add == nil {
		l.Add = NoDelay
	}
	if l.Update == nil {
		l.Update = NoDelay
	}
	if l.Delete == nil {
		l.Delete = NoDelay
	}
	return l
}
