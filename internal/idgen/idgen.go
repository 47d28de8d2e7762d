// Package idgen generates the local, opaque conference ids the registry
// assigns on create. The scheme mirrors the original bridge's
// generateConferenceID: a hex encoding of the current time in milliseconds
// mixed with a random int64, so ids are unpredictable but cheap to produce
// without a UUID dependency for this internal, short-lived identifier.
package idgen

import (
	"strconv"

	"github.com/dkeye/voicebridge/internal/clock"
	"github.com/dkeye/voicebridge/internal/domain"
	"github.com/dkeye/voicebridge/internal/rng"
)

// Generator produces conference ids from injected time and randomness, so
// tests can force a specific sequence (including collisions) deterministically.
type Generator struct {
	clock clock.Clock
	rng   rng.Rng
}

// New returns a Generator backed by the given Clock and Rng.
func New(c clock.Clock, r rng.Rng) *Generator {
	return &Generator{clock: c, rng: r}
}

// Next returns the next candidate conference id. Callers that need
// collision-free ids retry with a fresh Next() call against the registry's
// locked id space; Generator itself has no notion of "already in use".
func (g *Generator) Next() domain.ConferenceID {
	millis := g.clock.Now().UnixMilli()
	v := uint64(millis + g.rng.Int64())
	return domain.ConferenceID(strconv.FormatUint(v, 16))
}
