// Package registry implements the conference registry: the two
// cross-indexed maps (by local id, by meeting id) that the router consults
// and mutates. Grounded on the teacher's RoomManager
// (internal/core/room_manager.go) for the single-mutex map-of-maps shape,
// generalized here to the dual-index create/expire contract with
// id-collision retry and event emission the spec demands.
package registry

import (
	"github.com/dkeye/voicebridge/internal/conference"
	"github.com/dkeye/voicebridge/internal/domain"
	"github.com/dkeye/voicebridge/internal/events"
	"github.com/dkeye/voicebridge/internal/idgen"
	"github.com/dkeye/voicebridge/internal/routererr"

	"sync"
)

// maxCreateAttempts bounds the id-collision retry loop. The id space
// (time-millis mixed with a random int64, hex encoded) makes repeated
// collisions vanishingly unlikely; this is a defensive ceiling, not an
// expected path.
const maxCreateAttempts = 1000

// ExpireNotifier is notified after a conference has been fully removed
// from both indices, so the shutdown coordinator can run its quiescence
// check. Kept as a narrow interface rather than importing the shutdown
// package, to avoid a dependency cycle (shutdown needs the registry's live
// count; the registry notifies shutdown of expirations).
type ExpireNotifier interface {
	NotifyConferenceExpired()
}

// Registry holds the two conference indices under a single mutex.
type Registry struct {
	idgen *idgen.Generator

	mu          sync.Mutex
	byID        map[domain.ConferenceID]*conference.Conference
	byMeetingID map[domain.MeetingID]*conference.Conference

	emitter  *events.Emitter
	notifier ExpireNotifier
}

// New returns an empty Registry. notifier may be nil until the shutdown
// coordinator is wired up via SetExpireNotifier.
func New(gen *idgen.Generator, emitter *events.Emitter) *Registry {
	return &Registry{
		idgen:       gen,
		byID:        make(map[domain.ConferenceID]*conference.Conference),
		byMeetingID: make(map[domain.MeetingID]*conference.Conference),
		emitter:     emitter,
	}
}

// SetExpireNotifier wires the shutdown coordinator in after construction,
// breaking the registry/shutdown construction-order cycle.
func (r *Registry) SetExpireNotifier(n ExpireNotifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifier = n
}

// CreateParams bundles Create's optional fields.
type CreateParams struct {
	Name             string
	GID              domain.GID
	MeetingID        domain.MeetingID
	HasMeetingID     bool
	RTCStatsEnabled  bool
	CallStatsEnabled bool
	StrictMeetingID  bool
}

// Create allocates a fresh id, constructs a Conference, and inserts it
// into byID (and byMeetingID, if a meeting id is present). When
// StrictMeetingID is true and MeetingID already has a live entry, fails
// with routererr.ErrAlreadyExists without constructing anything.
func (r *Registry) Create(p CreateParams) (*conference.Conference, error) {
	r.mu.Lock()

	if p.HasMeetingID && p.StrictMeetingID {
		if _, exists := r.byMeetingID[p.MeetingID]; exists {
			r.mu.Unlock()
			return nil, routererr.ErrAlreadyExists
		}
	}

	var id domain.ConferenceID
	for attempt := 0; ; attempt++ {
		if attempt >= maxCreateAttempts {
			r.mu.Unlock()
			panic("registry: exhausted id-collision retry budget")
		}
		candidate := r.idgen.Next()
		if _, taken := r.byID[candidate]; !taken {
			id = candidate
			break
		}
	}

	c := conference.New(id, p.Name, p.GID, p.MeetingID, p.HasMeetingID, p.RTCStatsEnabled, p.CallStatsEnabled)
	r.byID[id] = c
	if p.HasMeetingID {
		// Legacy (non-strict) tolerance: if another live conference already
		// holds this meeting id, leave its byMeetingID entry untouched
		// rather than overwriting it. This intentionally creates a window
		// where GetByMeetingID sees only one of two live matches.
		if _, occupied := r.byMeetingID[p.MeetingID]; !occupied {
			r.byMeetingID[p.MeetingID] = c
		}
	}
	r.mu.Unlock()

	if r.emitter != nil {
		r.emitter.Emit(events.Event{Kind: events.Created, ConferenceID: id, MeetingID: p.MeetingID, HasMeetingID: p.HasMeetingID})
	}
	return c, nil
}

// GetByID returns the live conference for id, if any.
func (r *Registry) GetByID(id domain.ConferenceID) (*conference.Conference, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	return c, ok
}

// GetByMeetingID returns the live conference for mid, if any.
func (r *Registry) GetByMeetingID(mid domain.MeetingID) (*conference.Conference, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byMeetingID[mid]
	return c, ok
}

// List returns an independent snapshot of every live conference.
func (r *Registry) List() []*conference.Conference {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*conference.Conference, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out
}

// Count returns the number of live conferences.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Expire removes c from both indices if it is still the live entry under
// its id, invokes c.Expire() exactly once, emits conferenceExpired, and
// notifies the shutdown coordinator. A no-op if c is no longer indexed
// (e.g. a concurrent duplicate expire call).
func (r *Registry) Expire(c *conference.Conference) {
	r.mu.Lock()
	current, ok := r.byID[c.ID()]
	if !ok || current != c {
		r.mu.Unlock()
		return
	}
	delete(r.byID, c.ID())
	if mid, has := c.MeetingID(); has {
		if r.byMeetingID[mid] == c {
			delete(r.byMeetingID, mid)
		}
	}
	r.mu.Unlock()

	c.Expire()

	if r.emitter != nil {
		mid, has := c.MeetingID()
		r.emitter.Emit(events.Event{Kind: events.Expired, ConferenceID: c.ID(), MeetingID: mid, HasMeetingID: has})
	}

	r.mu.Lock()
	n := r.notifier
	r.mu.Unlock()
	if n != nil {
		n.NotifyConferenceExpired()
	}
}
