// Package ratelimit paces outbound Gemini calls. The free tier allows a
// handful of requests per minute, so after every call the pipeline must
// block long enough that the next request starts no earlier than
// call_start + floor + margin.
package ratelimit

import (
	"time"

	"paperbot/internal/logger"
)

// Margin added on top of the floor after every call.
const Margin = time.Second

// Pacer serializes calls against a per-model request floor. The zero
// value is not usable; construct with New.
type Pacer struct {
	now   func() time.Time
	sleep func(time.Duration)
}

func New() *Pacer {
	return &Pacer{now: time.Now, sleep: time.Sleep}
}

// NewWithClock wires a fake clock for tests.
func NewWithClock(now func() time.Time, sleep func(time.Duration)) *Pacer {
	return &Pacer{now: now, sleep: sleep}
}

// Wait blocks until at least floor (plus a one second margin) has
// passed since start. Elapsed time is truncated to whole seconds before
// the subtraction, so an elapsed 3.2s against a 12s floor sleeps 10s.
func (p *Pacer) Wait(start time.Time, floor time.Duration) {
	elapsed := p.now().Sub(start).Truncate(time.Second)
	remaining := floor - elapsed
	if remaining < 0 {
		remaining = 0
	}
	d := remaining + Margin
	logger.Debug("rate limit pause", "floor", floor, "elapsed", elapsed, "sleep", d)
	p.sleep(d)
}
