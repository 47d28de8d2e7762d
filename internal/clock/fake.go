package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manually-advanced Clock for deterministic tests. The zero value
// is not usable; construct with NewFake.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	waiters []fakeWaiter
}

type fakeWaiter struct {
	at uint64 // nanosecond epoch, monotonic within the fake's own timeline
	ch chan time.Time
	fn func()
	// repeat > 0 means a ticker: re-arm itself at +repeat after firing.
	repeat time.Duration
	active *bool
}

// NewFake returns a Fake clock starting at t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan time.Time, 1)
	f.waiters = append(f.waiters, fakeWaiter{at: f.deadline(d), ch: ch})
	return ch
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) *Timer {
	f.mu.Lock()
	active := true
	f.waiters = append(f.waiters, fakeWaiter{at: f.deadline(d), fn: fn, active: &active})
	f.mu.Unlock()
	return &Timer{stopFunc: func() bool {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !active {
			return false
		}
		active = false
		return true
	}}
}

func (f *Fake) NewTicker(d time.Duration) *Ticker {
	f.mu.Lock()
	active := true
	ch := make(chan time.Time, 1)
	f.waiters = append(f.waiters, fakeWaiter{at: f.deadline(d), ch: ch, repeat: d, active: &active})
	f.mu.Unlock()
	return &Ticker{C: ch, stopFunc: func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		active = false
	}}
}

func (f *Fake) deadline(d time.Duration) uint64 {
	return uint64(f.now.Add(d).UnixNano())
}

// Advance moves the clock forward by d, firing every waiter whose deadline
// falls at or before the new time, in deadline order. Tickers that fire
// re-arm themselves at +interval.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.now = target

	due := make([]fakeWaiter, 0, len(f.waiters))
	remaining := make([]fakeWaiter, 0, len(f.waiters))
	for _, w := range f.waiters {
		if w.active != nil && !*w.active {
			continue
		}
		if w.at <= uint64(target.UnixNano()) {
			due = append(due, w)
		} else {
			remaining = append(remaining, w)
		}
	}
	f.waiters = remaining
	f.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, w := range due {
		switch {
		case w.fn != nil:
			w.fn()
		case w.ch != nil:
			select {
			case w.ch <- target:
			default:
			}
			if w.repeat > 0 {
				f.mu.Lock()
				f.waiters = append(f.waiters, fakeWaiter{
					at: uint64(target.Add(w.repeat).UnixNano()), ch: w.ch, repeat: w.repeat, active: w.active,
				})
				f.mu.Unlock()
			}
		}
	}
}
