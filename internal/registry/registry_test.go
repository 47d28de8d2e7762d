package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/voicebridge/internal/clock"
	"github.com/dkeye/voicebridge/internal/events"
	"github.com/dkeye/voicebridge/internal/idgen"
	"github.com/dkeye/voicebridge/internal/rng"
)

func newTestRegistry() *Registry {
	c := clock.NewFake(time.UnixMilli(1000))
	gen := idgen.New(c, rng.Real())
	return New(gen, events.New())
}

func TestCreateInsertsIntoBothIndices(t *testing.T) {
	r := newTestRegistry()

	c, err := r.Create(CreateParams{MeetingID: "m-1", HasMeetingID: true, StrictMeetingID: true})
	require.NoError(t, err)

	byID, ok := r.GetByID(c.ID())
	require.True(t, ok)
	assert.Same(t, c, byID)

	byMid, ok := r.GetByMeetingID("m-1")
	require.True(t, ok)
	assert.Same(t, c, byMid)
}

func TestStrictMeetingIDCollisionFails(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Create(CreateParams{MeetingID: "m-1", HasMeetingID: true, StrictMeetingID: true})
	require.NoError(t, err)

	_, err = r.Create(CreateParams{MeetingID: "m-1", HasMeetingID: true, StrictMeetingID: true})
	assert.Error(t, err)
}

func TestNonStrictCollisionLeavesOldEntryUnchanged(t *testing.T) {
	r := newTestRegistry()

	first, err := r.Create(CreateParams{MeetingID: "m-1", HasMeetingID: true, StrictMeetingID: false})
	require.NoError(t, err)

	second, err := r.Create(CreateParams{MeetingID: "m-1", HasMeetingID: true, StrictMeetingID: false})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID(), second.ID(), "legacy tolerance still creates a distinct conference")

	byMid, ok := r.GetByMeetingID("m-1")
	require.True(t, ok)
	assert.Same(t, first, byMid, "byMeetingId must keep pointing at the first live conference")

	_, ok = r.GetByID(second.ID())
	assert.True(t, ok, "the second conference is still reachable by id")
}

func TestNoMeetingIDNeverTouchesByMeetingIDIndex(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Create(CreateParams{HasMeetingID: false})
	require.NoError(t, err)

	_, ok := r.GetByMeetingID("")
	assert.False(t, ok)
}

func TestExpireRemovesFromBothIndicesAtomically(t *testing.T) {
	r := newTestRegistry()

	c, err := r.Create(CreateParams{MeetingID: "m-1", HasMeetingID: true, StrictMeetingID: true})
	require.NoError(t, err)

	r.Expire(c)

	_, ok := r.GetByID(c.ID())
	assert.False(t, ok)
	_, ok = r.GetByMeetingID("m-1")
	assert.False(t, ok)
	assert.True(t, c.Expired())
}

func TestExpireIsIdempotent(t *testing.T) {
	r := newTestRegistry()

	c, err := r.Create(CreateParams{})
	require.NoError(t, err)

	r.Expire(c)
	r.Expire(c) // must be a no-op, not a panic or double event

	assert.True(t, c.Expired())
}

func TestListIsAnIndependentSnapshot(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Create(CreateParams{})
	require.NoError(t, err)

	snapshot := r.List()
	require.Len(t, snapshot, 1)

	_, err = r.Create(CreateParams{})
	require.NoError(t, err)

	assert.Len(t, snapshot, 1, "earlier snapshot must not observe the later insertion")
	assert.Equal(t, 2, r.Count())
}

func TestCreateRetriesOnIDCollision(t *testing.T) {
	c := clock.NewFake(time.UnixMilli(1000))
	// Force the first two candidate draws to collide, then succeed.
	gen := idgen.New(c, rng.NewSequence(1, 1, 2))
	r := New(gen, events.New())

	first, err := r.Create(CreateParams{})
	require.NoError(t, err)

	second, err := r.Create(CreateParams{})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID(), second.ID())
}
