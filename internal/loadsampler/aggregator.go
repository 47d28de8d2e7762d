package loadsampler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pion/rtcp"
	"github.com/pion/rtp"

	"github.com/dkeye/voicebridge/internal/clock"
)

// Aggregator accumulates raw pion/rtp and pion/rtcp observations from
// every active relay into a windowed PacketRateMeasurement, implementing
// BridgeSampleSource. Relays feed it via ObserveRTP/ObserveRTCP; the
// sampler drains it once per tick via Sample.
type Aggregator struct {
	clock      clock.Clock
	windowOpen time.Time

	packets atomic.Int64
	bytes   atomic.Int64

	mu          sync.Mutex
	jitterSum   float64
	jitterCount int
}

// NewAggregator returns an Aggregator whose window starts now.
func NewAggregator(c clock.Clock) *Aggregator {
	return &Aggregator{clock: c, windowOpen: c.Now()}
}

// ObserveRTP records one forwarded RTP packet's size toward the current
// window's packet and byte counts.
func (a *Aggregator) ObserveRTP(pkt *rtp.Packet) {
	if pkt == nil {
		return
	}
	a.packets.Add(1)
	a.bytes.Add(int64(pkt.MarshalSize()))
}

// ObserveRTCP folds a receiver report's per-source jitter readings into
// the running jitter average for the current window.
func (a *Aggregator) ObserveRTCP(report *rtcp.ReceiverReport) {
	if report == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range report.Reports {
		a.jitterSum += float64(r.Jitter)
		a.jitterCount++
	}
}

// Sample closes the current window, returning the measurement derived
// from it, and opens a fresh window.
func (a *Aggregator) Sample() PacketRateMeasurement {
	now := a.clock.Now()

	a.mu.Lock()
	elapsed := now.Sub(a.windowOpen).Seconds()
	packets := a.packets.Swap(0)
	bytes := a.bytes.Swap(0)
	jitterSum, jitterCount := a.jitterSum, a.jitterCount
	a.jitterSum, a.jitterCount = 0, 0
	a.windowOpen = now
	a.mu.Unlock()

	if elapsed <= 0 {
		elapsed = 1
	}
	m := PacketRateMeasurement{
		PacketsPerSecond: float64(packets) / elapsed,
		BytesPerSecond:   float64(bytes) / elapsed,
	}
	// jitter is reported in RTP timestamp units (1/90000s for video,
	// 1/48000s etc. for audio); this aggregator treats it as an
	// already-comparable relative measure since per-clock-rate
	// conversion is a media-plane concern out of this core's scope.
	if jitterCount > 0 {
		m.JitterMillis = jitterSum / float64(jitterCount)
	}
	return m
}
