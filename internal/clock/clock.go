// Package clock abstracts time operations so the load sampler and the
// shutdown coordinator can be driven deterministically in tests instead of
// racing the wall clock.
package clock

import "time"

// Clock is the capability every production component that would otherwise
// call time.Now, time.After, time.AfterFunc, or time.NewTicker should accept
// instead of reaching for the time package directly.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
	AfterFunc(d time.Duration, f func()) *Timer
	NewTicker(d time.Duration) *Ticker
}

// Ticker wraps a periodic timer. Read ticks from C; call Stop when done.
type Ticker struct {
	C <-chan time.Time

	stopFunc func()
}

func (t *Ticker) Stop() { t.stopFunc() }

// Timer represents a scheduled single-shot callback registered via
// AfterFunc. Stop cancels it if it has not fired yet.
type Timer struct {
	stopFunc func() bool
}

func (t *Timer) Stop() bool { return t.stopFunc() }
