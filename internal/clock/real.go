package clock

import "time"

// real is the production Clock backed by the time package.
type real struct{}

// Real returns the production Clock.
func Real() Clock { return real{} }

func (real) Now() time.Time { return time.Now() }

func (real) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (real) AfterFunc(d time.Duration, f func()) *Timer {
	t := time.AfterFunc(d, f)
	return &Timer{stopFunc: t.Stop}
}

func (real) NewTicker(d time.Duration) *Ticker {
	t := time.NewTicker(d)
	return &Ticker{C: t.C, stopFunc: t.Stop}
}
