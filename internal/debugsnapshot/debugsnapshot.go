// Package debugsnapshot builds the read-consistent JSON projection of
// bridge state: shutdown status, load management, jitter, and either a
// shallow per-conference index or one conference's full projection.
// Grounded on the teacher's http_adapters.go route-group style for what a
// debug endpoint should expose, generalized to the ordered-map projection
// the spec demands.
package debugsnapshot

import (
	"github.com/dkeye/voicebridge/internal/clock"
	"github.com/dkeye/voicebridge/internal/domain"
	"github.com/dkeye/voicebridge/internal/loadsampler"
	"github.com/dkeye/voicebridge/internal/orderedmap"
	"github.com/dkeye/voicebridge/internal/registry"
	"github.com/dkeye/voicebridge/internal/shutdown"
	"github.com/dkeye/voicebridge/internal/stats"
)

// Builder assembles debug snapshots from the core's components without
// mutating any of them.
type Builder struct {
	registry    *registry.Registry
	coordinator *shutdown.Coordinator
	loadManager *loadsampler.Manager
	stats       *stats.Stats
	clock       clock.Clock
}

// New returns a Builder reading from the given components.
func New(reg *registry.Registry, co *shutdown.Coordinator, lm *loadsampler.Manager, st *stats.Stats, c clock.Clock) *Builder {
	return &Builder{registry: reg, coordinator: co, loadManager: lm, stats: st, clock: c}
}

// Snapshot builds the top-level debug projection. If conferenceID is
// empty, "conferences" is a shallow id->projection map of every live
// conference. If conferenceID is non-empty, "conferences" holds either the
// literal string "null" (not found) or one conference's full projection,
// optionally scoped to endpointID. Looking up a specific conference this
// way never touches it for expiry purposes: it reads the registry's
// current snapshot, nothing more.
func (b *Builder) Snapshot(conferenceID, endpointID string) *orderedmap.Map {
	root := orderedmap.New()
	root.Set("shutdownInProgress", b.coordinator.State() != shutdown.Running)
	root.Set("time", b.clock.Now().UnixMilli())
	root.Set("loadManagement", b.loadManagementSnapshot())
	root.Set("overallBridgeJitter", b.stats.Jitter())

	if conferenceID != "" {
		root.Set("conferences", b.oneConference(conferenceID, endpointID))
		return root
	}
	root.Set("conferences", b.allConferencesShallow())
	return root
}

func (b *Builder) loadManagementSnapshot() *orderedmap.Map {
	m := orderedmap.New()
	level := "normal"
	if b.loadManager.Level() == loadsampler.Overloaded {
		level = "overloaded"
	}
	m.Set("level", level)
	m.Set("stressLevel", b.stats.StressLevel())
	return m
}

func (b *Builder) allConferencesShallow() *orderedmap.Map {
	m := orderedmap.New()
	for _, c := range b.registry.List() {
		m.Set(string(c.ID()), c.DebugSnapshot(false, ""))
	}
	return m
}

func (b *Builder) oneConference(conferenceID, endpointID string) any {
	c, ok := b.registry.GetByID(domain.ConferenceID(conferenceID))
	if !ok {
		return "null"
	}
	return c.DebugSnapshot(true, endpointID)
}
