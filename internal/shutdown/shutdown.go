// Package shutdown implements the graceful/force shutdown state machine.
// Grounded on the teacher's cmd/server/main.go signal.NotifyContext +
// context.WithTimeout idiom for process lifecycle, generalized into an
// explicit state machine driven by the registry's expire notifications and
// the load sampler's own scheduled-task pool (here, a clock.Clock).
package shutdown

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/voicebridge/internal/clock"
)

// State is one of the three logical shutdown states.
type State int

const (
	Running State = iota
	GracefulRequested
	ForcingExit
)

// ConferenceCounter reports the current count of live conferences, so the
// quiescence check can decide whether the bridge is safe to exit.
type ConferenceCounter interface {
	Count() int
}

// Beginner is invoked at most once, when the quiescence check determines
// the bridge may actually shut down.
type Beginner interface {
	BeginShutdown()
}

// Exiter terminates the process. Isolated behind an interface so tests can
// observe "process exit requested" without actually exiting.
type Exiter interface {
	Exit()
}

// Coordinator drives the shutdown state machine described in the core's
// design: Running -> GracefulRequested(since) -> ForcingExit.
type Coordinator struct {
	clock clock.Clock

	minAnnouncementWindow time.Duration
	forceExitDelay        time.Duration

	counter  ConferenceCounter
	beginner Beginner
	exiter   Exiter

	mu        sync.Mutex
	state     State
	since     time.Time
	begun     bool
	exitOnce  sync.Once
}

// New returns a Coordinator in the Running state.
func New(c clock.Clock, counter ConferenceCounter, beginner Beginner, exiter Exiter, minAnnouncementWindow, forceExitDelay time.Duration) *Coordinator {
	return &Coordinator{
		clock:                 c,
		minAnnouncementWindow: minAnnouncementWindow,
		forceExitDelay:        forceExitDelay,
		counter:               counter,
		beginner:              beginner,
		exiter:                exiter,
		state:                 Running,
	}
}

// State returns the current shutdown state.
func (co *Coordinator) State() State {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.state
}

// RequestGraceful transitions Running -> GracefulRequested and schedules
// the first quiescence check. A no-op if already past Running.
func (co *Coordinator) RequestGraceful() {
	co.mu.Lock()
	if co.state != Running {
		co.mu.Unlock()
		return
	}
	co.state = GracefulRequested
	co.since = co.clock.Now()
	co.mu.Unlock()

	log.Info().Msg("graceful shutdown requested")
	co.runQuiescenceCheck()
}

// RequestForce transitions to ForcingExit and schedules process exit after
// forceExitDelay. Safe to call more than once; the delayed exit itself
// fires exactly once regardless of how many times this is called.
func (co *Coordinator) RequestForce() {
	co.mu.Lock()
	co.state = ForcingExit
	co.mu.Unlock()

	log.Warn().Msg("force shutdown requested")
	co.clock.AfterFunc(co.forceExitDelay, co.doExit)
}

func (co *Coordinator) doExit() {
	co.exitOnce.Do(func() {
		if co.exiter != nil {
			co.exiter.Exit()
		}
	})
}

// NotifyConferenceExpired re-runs the quiescence check inline, so the
// happy path where all conferences are already gone doesn't wait for the
// next scheduled tick. A no-op outside GracefulRequested.
func (co *Coordinator) NotifyConferenceExpired() {
	co.mu.Lock()
	inGraceful := co.state == GracefulRequested
	co.mu.Unlock()
	if inGraceful {
		co.runQuiescenceCheck()
	}
}

func (co *Coordinator) runQuiescenceCheck() {
	co.mu.Lock()
	if co.state != GracefulRequested || co.begun {
		co.mu.Unlock()
		return
	}
	since := co.since
	co.mu.Unlock()

	if co.counter.Count() != 0 {
		return
	}

	delay := co.minAnnouncementWindow - co.clock.Now().Sub(since)
	if delay <= 0 {
		co.beginShutdownOnce()
		return
	}
	co.clock.AfterFunc(delay, func() { co.runQuiescenceCheck() })
}

func (co *Coordinator) beginShutdownOnce() {
	co.mu.Lock()
	if co.begun {
		co.mu.Unlock()
		return
	}
	co.begun = true
	co.mu.Unlock()

	log.Info().Msg("beginning shutdown: quiescent and announcement window elapsed")
	if co.beginner != nil {
		co.beginner.BeginShutdown()
	}
}
