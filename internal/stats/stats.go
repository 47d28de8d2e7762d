// Package stats holds the bridge-wide counters and gauges. The core itself
// writes only the stress-level and jitter gauges (through the load
// manager); nothing in this repository increments the counters or merges
// conference counters into them at expiry. Counters use sync/atomic the way the teacher's
// OutTrack tracks its state (internal/app/sfu/outtrack.go) rather than a
// mutex-guarded struct, since these are pure independent counters with no
// cross-field invariant to protect.
package stats

import (
	"sync/atomic"

	"github.com/dkeye/voicebridge/internal/orderedmap"
)

// Stats is the fixed set of monotone counters and gauges the core
// publishes. Safe for concurrent use; the zero value is ready to use.
type Stats struct {
	ConferencesCreated                atomic.Int64
	ConferencesCompleted              atomic.Int64
	ConferencesFailed                 atomic.Int64
	ConferencesPartiallyFailed        atomic.Int64
	TotalConferenceSeconds            atomic.Int64
	TotalBytesReceived                atomic.Int64
	TotalBytesSent                    atomic.Int64
	TotalPacketsReceived              atomic.Int64
	TotalPacketsSent                  atomic.Int64
	TotalRelayBytesReceived           atomic.Int64
	TotalRelayBytesSent               atomic.Int64
	TotalRelayPacketsReceived         atomic.Int64
	TotalRelayPacketsSent             atomic.Int64
	TotalEndpointsCreated             atomic.Int64
	TotalRelaysCreated                atomic.Int64
	TotalIceSucceeded                 atomic.Int64
	TotalIceSucceededTcp              atomic.Int64
	TotalIceSucceededRelayed          atomic.Int64
	TotalIceFailed                    atomic.Int64
	TotalDominantSpeakerChanges       atomic.Int64
	TotalKeyframesReceived            atomic.Int64
	TotalKeyframesRequestedSent       atomic.Int64
	TotalKeyframesRequestedSuppressed atomic.Int64
	TotalLossControlledParticipantMs  atomic.Int64
	TotalLossLimitedParticipantMs     atomic.Int64
	TotalLossDegradedParticipantMs    atomic.Int64
	TotalDataChannelMessagesSent      atomic.Int64
	TotalDataChannelMessagesRecv      atomic.Int64
	TotalColibriWebSocketMessagesSent atomic.Int64
	TotalColibriWebSocketMessagesRecv atomic.Int64

	// Gauges, rewritten wholesale rather than accumulated.
	stressLevelBits atomic.Uint64 // math.Float64bits(stressLevel)
	jitterBits      atomic.Uint64

	DiscardedAudioEnergy Histogram
}

// New returns a zero-valued, ready-to-use Stats.
func New() *Stats {
	return &Stats{}
}

// SetStressLevel publishes the current stress level gauge. The value is
// stored as given; the load manager passes the latest sample's packet rate
// divided by the loaded threshold, with no smoothing across samples.
func (s *Stats) SetStressLevel(v float64) {
	s.stressLevelBits.Store(float64bits(v))
}

// StressLevel returns the last published stress level.
func (s *Stats) StressLevel() float64 {
	return float64frombits(s.stressLevelBits.Load())
}

// SetJitter publishes the bridge-wide jitter gauge. The value is stored as
// given; Aggregator supplies the mean receiver-report jitter in RTP
// timestamp units, not converted to milliseconds.
func (s *Stats) SetJitter(v float64) {
	s.jitterBits.Store(float64bits(v))
}

// Jitter returns the last published jitter gauge.
func (s *Stats) Jitter() float64 {
	return float64frombits(s.jitterBits.Load())
}

// Snapshot renders the counters and gauges into an ordered map suitable
// for the debug snapshot projection.
func (s *Stats) Snapshot() *orderedmap.Map {
	m := orderedmap.New()
	m.Set("conferences_created", s.ConferencesCreated.Load())
	m.Set("conferences_completed", s.ConferencesCompleted.Load())
	m.Set("conferences_failed", s.ConferencesFailed.Load())
	m.Set("conferences_partially_failed", s.ConferencesPartiallyFailed.Load())
	m.Set("total_conference_seconds", s.TotalConferenceSeconds.Load())
	m.Set("total_bytes_received", s.TotalBytesReceived.Load())
	m.Set("total_bytes_sent", s.TotalBytesSent.Load())
	m.Set("total_packets_received", s.TotalPacketsReceived.Load())
	m.Set("total_packets_sent", s.TotalPacketsSent.Load())
	m.Set("total_relay_bytes_received", s.TotalRelayBytesReceived.Load())
	m.Set("total_relay_bytes_sent", s.TotalRelayBytesSent.Load())
	m.Set("total_relay_packets_received", s.TotalRelayPacketsReceived.Load())
	m.Set("total_relay_packets_sent", s.TotalRelayPacketsSent.Load())
	m.Set("total_endpoints_created", s.TotalEndpointsCreated.Load())
	m.Set("total_relays_created", s.TotalRelaysCreated.Load())
	m.Set("total_ice_succeeded", s.TotalIceSucceeded.Load())
	m.Set("total_ice_succeeded_tcp", s.TotalIceSucceededTcp.Load())
	m.Set("total_ice_succeeded_relayed", s.TotalIceSucceededRelayed.Load())
	m.Set("total_ice_failed", s.TotalIceFailed.Load())
	m.Set("total_dominant_speaker_changes", s.TotalDominantSpeakerChanges.Load())
	m.Set("total_keyframes_received", s.TotalKeyframesReceived.Load())
	m.Set("total_keyframes_requested_sent", s.TotalKeyframesRequestedSent.Load())
	m.Set("total_keyframes_requested_suppressed", s.TotalKeyframesRequestedSuppressed.Load())
	m.Set("total_loss_controlled_participant_ms", s.TotalLossControlledParticipantMs.Load())
	m.Set("total_loss_limited_participant_ms", s.TotalLossLimitedParticipantMs.Load())
	m.Set("total_loss_degraded_participant_ms", s.TotalLossDegradedParticipantMs.Load())
	m.Set("total_data_channel_messages_sent", s.TotalDataChannelMessagesSent.Load())
	m.Set("total_data_channel_messages_received", s.TotalDataChannelMessagesRecv.Load())
	m.Set("total_colibri_websocket_messages_sent", s.TotalColibriWebSocketMessagesSent.Load())
	m.Set("total_colibri_websocket_messages_received", s.TotalColibriWebSocketMessagesRecv.Load())
	m.Set("stress_level", s.StressLevel())
	m.Set("overall_bridge_jitter", s.Jitter())
	m.Set("discarded_audio_energy", s.DiscardedAudioEnergy.Snapshot())
	return m
}
