// Package loadsampler implements the periodic packet-rate sampler and the
// hysteresis-based load manager that reacts to it. The ctx-driven ticking
// loop is grounded on the teacher's Relay.loop (internal/app/sfu/relay.go)
// select/ctx.Done shape, generalized from a per-relay RTP read loop to a
// fixed-rate sampling loop. PacketRateMeasurement's fields are populated
// from pion/rtp and pion/rtcp types so the bridge-wide aggregation
// contract exercises the same packet model the real forwarding path would
// use, even though forwarding itself is out of this core's scope.
package loadsampler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/voicebridge/internal/clock"
	"github.com/dkeye/voicebridge/internal/conference"
	"github.com/dkeye/voicebridge/internal/stats"
)

// PacketRateMeasurement is one bridge-wide sample: aggregate packet and
// byte rates plus a jitter estimate derived from pion/rtcp receiver
// reports. Real deployments would accumulate this from every active
// relay's RTP/RTCP traffic; here a BridgeSampleSource supplies it.
type PacketRateMeasurement struct {
	PacketsPerSecond float64
	BytesPerSecond   float64
	JitterMillis     float64
}

// BridgeSampleSource is the external collaborator that knows how to
// observe the whole bridge's current packet and RTCP traffic. The core
// depends only on this narrow capability, not on any specific transport.
type BridgeSampleSource interface {
	Sample() PacketRateMeasurement
}

// RTPPacketObserver and RTCPReportObserver let an external sampling
// implementation feed raw pion/rtp and pion/rtcp values into a
// PacketRateMeasurement accumulator without the loadsampler package
// needing to know about transports or relays.
type RTPPacketObserver interface {
	ObserveRTP(pkt *rtp.Packet)
}

type RTCPReportObserver interface {
	ObserveRTCP(report *rtcp.ReceiverReport)
}

// Level is the hysteresis machine's current classification.
type Level int

const (
	Normal Level = iota
	Overloaded
)

// Reducer is invoked on entering Overloaded, receiving a snapshot of live
// conferences it may act on (e.g. lowering the effective last-N). The
// reducer's concrete action on each conference is out of this core's
// scope; the core only guarantees the callback fires with a snapshot.
type Reducer func(liveConferences []*conference.Conference)

// Manager computes stress level from samples and drives the
// Normal<->Overloaded hysteresis machine.
type Manager struct {
	loadedThreshold   float64
	recoveryThreshold float64
	reducer           Reducer
	liveConferences   func() []*conference.Conference
	stats             *stats.Stats

	// level is written by Observe, called only from the Sampler's own
	// ticking goroutine, and read by Level from any HTTP request-handling
	// goroutine via debugsnapshot.Builder; an atomic keeps that read/write
	// pair race-free without a mutex.
	level atomic.Int32
}

// NewManager returns a Manager starting in Normal.
func NewManager(loadedThreshold, recoveryThreshold float64, reducer Reducer, liveConferences func() []*conference.Conference, st *stats.Stats) *Manager {
	return &Manager{
		loadedThreshold:   loadedThreshold,
		recoveryThreshold: recoveryThreshold,
		reducer:           reducer,
		liveConferences:   liveConferences,
		stats:             st,
	}
}

// Level returns the manager's current classification.
func (m *Manager) Level() Level { return Level(m.level.Load()) }

// Observe feeds one sample into the hysteresis machine and publishes the
// derived stress level and jitter gauges.
func (m *Manager) Observe(sample PacketRateMeasurement) {
	stressLevel := sample.PacketsPerSecond / maxOf(m.loadedThreshold, 1)
	m.stats.SetStressLevel(stressLevel)
	m.stats.SetJitter(sample.JitterMillis)

	switch Level(m.level.Load()) {
	case Normal:
		if sample.PacketsPerSecond > m.loadedThreshold {
			m.level.Store(int32(Overloaded))
			log.Warn().Float64("packets_per_second", sample.PacketsPerSecond).Msg("bridge entering overloaded state")
			if m.reducer != nil {
				var live []*conference.Conference
				if m.liveConferences != nil {
					live = m.liveConferences()
				}
				m.reducer(live)
			}
		}
	case Overloaded:
		if sample.PacketsPerSecond < m.recoveryThreshold {
			m.level.Store(int32(Normal))
			log.Info().Float64("packets_per_second", sample.PacketsPerSecond).Msg("bridge recovered to normal load")
		}
	}
}

func maxOf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Sampler runs Manager.Observe on a fixed-rate ticker until its context is
// cancelled.
type Sampler struct {
	clock    clock.Clock
	interval time.Duration
	source   BridgeSampleSource
	manager  *Manager
}

// NewSampler returns a Sampler that, once started, samples source at
// interval and feeds each measurement to manager.
func NewSampler(c clock.Clock, interval time.Duration, source BridgeSampleSource, manager *Manager) *Sampler {
	return &Sampler{clock: c, interval: interval, source: source, manager: manager}
}

// Run blocks, sampling at the configured interval, until ctx is
// cancelled. Intended to be run in its own goroutine and stopped via
// context cancellation from Stop().
func (s *Sampler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.manager.Observe(s.source.Sample())
		}
	}
}
