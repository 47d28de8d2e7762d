// Package conference provides the concrete Conference implementation the
// registry creates and the router dispatches into. The core treats a
// Conference as an opaque actor (see Handle); this package is the minimal
// concrete shape needed to exercise that contract end to end — a real
// deployment's Conference would additionally own endpoints, relays, and
// media plumbing, all out of this core's scope.
//
// The single-consumer ingress queue drained by its own goroutine mirrors
// the teacher's WsSignalConn.send / writePump shape: a buffered channel
// absorbs bursts, and TrySend-style non-blocking enqueue signals
// backpressure instead of stalling the router.
package conference

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/voicebridge/internal/domain"
	"github.com/dkeye/voicebridge/internal/orderedmap"
	"github.com/dkeye/voicebridge/internal/signalling"
)

const ingressQueueCapacity = 64

// Handle is the contract the registry and router depend on. A Conference
// is otherwise opaque to the core.
type Handle interface {
	ID() domain.ConferenceID
	MeetingID() (domain.MeetingID, bool)
	GID() domain.GID
	Name() string

	// Enqueue hands a request off for asynchronous processing. Returns
	// false if the ingress queue is full or the conference has already
	// expired; the caller is responsible for surfacing that as backpressure.
	Enqueue(signalling.Request) bool

	// HandleSync processes a request inline and returns its reply,
	// bypassing the ingress queue. For test and synchronous-router use.
	HandleSync(signalling.Request) signalling.Reply

	// Expire is idempotent: only the first call has any effect.
	Expire()
	Expired() bool

	DebugSnapshot(full bool, endpointID string) *orderedmap.Map
}

// Conference is the default Handle implementation.
type Conference struct {
	id        domain.ConferenceID
	name      string
	gid       domain.GID
	meetingID domain.MeetingID
	hasMID    bool

	rtcStatsEnabled  bool
	callStatsEnabled bool

	expired atomic.Bool
	once    sync.Once

	requestsHandled atomic.Int64

	queue chan signalling.Request
	done  chan struct{}
}

// New constructs a live Conference and starts its ingress consumer
// goroutine. Mirrors the core's demanded constructor shape:
// (bridge, id, name?, gid, meetingId?, rtcStats, callStats) — bridge
// itself is not needed by this minimal implementation, since outbound
// events go through the registry rather than back-references.
func New(id domain.ConferenceID, name string, gid domain.GID, meetingID domain.MeetingID, hasMeetingID bool, rtcStats, callStats bool) *Conference {
	c := &Conference{
		id:               id,
		name:             name,
		gid:              gid,
		meetingID:        meetingID,
		hasMID:           hasMeetingID,
		rtcStatsEnabled:  rtcStats,
		callStatsEnabled: callStats,
		queue:            make(chan signalling.Request, ingressQueueCapacity),
		done:             make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Conference) ID() domain.ConferenceID { return c.id }

func (c *Conference) MeetingID() (domain.MeetingID, bool) { return c.meetingID, c.hasMID }

func (c *Conference) GID() domain.GID { return c.gid }

func (c *Conference) Name() string { return c.name }

func (c *Conference) Enqueue(req signalling.Request) bool {
	if c.expired.Load() {
		return false
	}
	select {
	case c.queue <- req:
		return true
	default:
		return false
	}
}

func (c *Conference) HandleSync(req signalling.Request) signalling.Reply {
	return c.process(req)
}

func (c *Conference) run() {
	for {
		select {
		case req := <-c.queue:
			reply := c.process(req)
			if req.ReplyTo != nil {
				req.ReplyTo(reply)
			}
		case <-c.done:
			return
		}
	}
}

func (c *Conference) process(req signalling.Request) signalling.Reply {
	c.requestsHandled.Add(1)
	mid, _ := c.MeetingID()
	return signalling.Reply{ConferenceID: c.id, MeetingID: mid, GID: c.gid}
}

func (c *Conference) Expire() {
	c.once.Do(func() {
		c.expired.Store(true)
		close(c.done)
		log.Debug().Str("conference", string(c.id)).Msg("conference expired")
	})
}

func (c *Conference) Expired() bool { return c.expired.Load() }

func (c *Conference) DebugSnapshot(full bool, endpointID string) *orderedmap.Map {
	m := orderedmap.New()
	m.Set("id", string(c.id))
	if mid, ok := c.MeetingID(); ok {
		m.Set("meeting_id", string(mid))
	}
	m.Set("gid", int64(c.gid))
	m.Set("name", c.name)
	m.Set("expired", c.Expired())
	if full {
		m.Set("rtcstats_enabled", c.rtcStatsEnabled)
		m.Set("callstats_enabled", c.callStatsEnabled)
		m.Set("requests_handled", c.requestsHandled.Load())
		if endpointID != "" {
			m.Set("endpoint_id", endpointID)
		}
	}
	return m
}
