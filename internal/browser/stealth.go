package browser

import (
	"context"
	"math/rand"
	"time"
)

// Pacer inserts human-like pauses between actions. A disabled Pacer
// returns immediately, which is what tests use.
type Pacer struct {
	enabled bool
	rnd     *rand.Rand
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewPacer(enabled bool) *Pacer {
	return &Pacer{
		enabled: enabled,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:   sleepCtx,
	}
}

// RandomDelay waits for a random duration in [min, max], or until ctx is done.
func (p *Pacer) RandomDelay(ctx context.Context, min, max time.Duration) error {
	if p == nil || !p.enabled {
		return ctx.Err()
	}
	d := min
	if max > min {
		d += time.Duration(p.rnd.Int63n(int64(max-min) + 1))
	}
	return p.sleep(ctx, d)
}

// Wait sleeps for exactly d unless pacing is off.
func (p *Pacer) Wait(ctx context.Context, d time.Duration) error {
	if p == nil || !p.enabled {
		return ctx.Err()
	}
	return p.sleep(ctx, d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
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

// PickUserAgent returns a random entry, or "" to keep the browser default.
func PickUserAgent(agents []string) string {
	if len(agents) == 0 {
		return ""
	}
	return agents[rand.Intn(len(agents))]
}
