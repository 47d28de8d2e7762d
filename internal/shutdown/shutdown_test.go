package shutdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/voicebridge/internal/clock"
)

type fakeCounter struct{ n int }

func (c *fakeCounter) Count() int { return c.n }

type fakeBeginner struct{ calls int }

func (b *fakeBeginner) BeginShutdown() { b.calls++ }

type fakeExiter struct{ calls int }

func (e *fakeExiter) Exit() { e.calls++ }

func TestGracefulWithNoLiveConferencesBeginsAfterAnnouncementWindow(t *testing.T) {
	fc := clock.NewFake(time.UnixMilli(0))
	counter := &fakeCounter{n: 0}
	beginner := &fakeBeginner{}
	co := New(fc, counter, beginner, &fakeExiter{}, 5*time.Second, time.Second)

	co.RequestGraceful()
	assert.Equal(t, GracefulRequested, co.State())
	assert.Equal(t, 0, beginner.calls, "must not begin before the announcement window elapses")

	fc.Advance(5 * time.Second)
	assert.Equal(t, 1, beginner.calls)
}

func TestBeginShutdownInvokedAtMostOnce(t *testing.T) {
	fc := clock.NewFake(time.UnixMilli(0))
	counter := &fakeCounter{n: 0}
	beginner := &fakeBeginner{}
	co := New(fc, counter, beginner, &fakeExiter{}, time.Second, time.Second)

	co.RequestGraceful()
	fc.Advance(time.Second)
	co.NotifyConferenceExpired()
	co.NotifyConferenceExpired()
	fc.Advance(time.Second)

	assert.Equal(t, 1, beginner.calls)
}

func TestQuiescenceWaitsForZeroLiveConferences(t *testing.T) {
	fc := clock.NewFake(time.UnixMilli(0))
	counter := &fakeCounter{n: 1}
	beginner := &fakeBeginner{}
	co := New(fc, counter, beginner, &fakeExiter{}, time.Second, time.Second)

	co.RequestGraceful()
	fc.Advance(2 * time.Second)
	assert.Equal(t, 0, beginner.calls, "must not begin while a conference is still live")

	counter.n = 0
	co.NotifyConferenceExpired()
	fc.Advance(time.Second)
	assert.Equal(t, 1, beginner.calls)
}

func TestForceShutdownExitsAfterDelayEvenIfRequestedTwice(t *testing.T) {
	fc := clock.NewFake(time.UnixMilli(0))
	exiter := &fakeExiter{}
	co := New(fc, &fakeCounter{}, &fakeBeginner{}, exiter, time.Second, time.Second)

	co.RequestForce()
	co.RequestForce()
	require.Equal(t, ForcingExit, co.State())

	fc.Advance(time.Second)
	assert.Equal(t, 1, exiter.calls, "the delayed exit itself must fire exactly once")
}
