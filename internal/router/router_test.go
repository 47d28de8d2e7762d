package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/voicebridge/internal/clock"
	"github.com/dkeye/voicebridge/internal/domain"
	"github.com/dkeye/voicebridge/internal/events"
	"github.com/dkeye/voicebridge/internal/idgen"
	"github.com/dkeye/voicebridge/internal/registry"
	"github.com/dkeye/voicebridge/internal/rng"
	"github.com/dkeye/voicebridge/internal/shutdown"
	"github.com/dkeye/voicebridge/internal/signalling"
)

type noopBeginner struct{}

func (noopBeginner) BeginShutdown() {}

type noopExiter struct{}

func (noopExiter) Exit() {}

func newTestRouter(t *testing.T) (*Router, *registry.Registry, *shutdown.Coordinator, *clock.Fake) {
	t.Helper()
	fc := clock.NewFake(time.UnixMilli(1000))
	gen := idgen.New(fc, rng.Real())
	reg := registry.New(gen, events.New())
	sd := shutdown.New(fc, reg, noopBeginner{}, noopExiter{}, 5*time.Second, time.Second)
	reg.SetExpireNotifier(sd)
	return New(reg, sd), reg, sd, fc
}

func TestV2CreateThenLookup(t *testing.T) {
	r, reg, _, _ := newTestRouter(t)

	reply := r.DispatchSync(signalling.Request{
		Dialect:   signalling.DialectV2,
		Create:    true,
		MeetingID: "m-1",
		Name:      "room@example.com",
	})
	require.False(t, reply.IsError)

	c, ok := reg.GetByMeetingID("m-1")
	require.True(t, ok)
	assert.Equal(t, c.ID(), reply.ConferenceID)

	lookup := r.DispatchSync(signalling.Request{
		Dialect:   signalling.DialectV2,
		Create:    false,
		MeetingID: "m-1",
	})
	require.False(t, lookup.IsError)
	assert.Equal(t, c.ID(), lookup.ConferenceID)
}

func TestV2DuplicateCreateConflicts(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	first := r.DispatchSync(signalling.Request{Dialect: signalling.DialectV2, Create: true, MeetingID: "m-1"})
	require.False(t, first.IsError)

	second := r.DispatchSync(signalling.Request{Dialect: signalling.DialectV2, Create: true, MeetingID: "m-1"})
	require.True(t, second.IsError)
	assert.Equal(t, "conflict", second.Condition)
	assert.Equal(t, "CONFERENCE_ALREADY_EXISTS", second.Reason)
}

func TestV1CreateNoIDThenLookupByID(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	created := r.DispatchSync(signalling.Request{Dialect: signalling.DialectV1, MeetingID: "m-2"})
	require.False(t, created.IsError)

	lookup := r.DispatchSync(signalling.Request{Dialect: signalling.DialectV1, ID: created.ConferenceID})
	require.False(t, lookup.IsError)
	assert.Equal(t, created.ConferenceID, lookup.ConferenceID)
}

func TestV1LookupMissingIsBadRequest(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	reply := r.DispatchSync(signalling.Request{Dialect: signalling.DialectV1, ID: domain.ConferenceID("does-not-exist")})
	require.True(t, reply.IsError)
	assert.Equal(t, "bad_request", reply.Condition)
	assert.Equal(t, "Conference not found for ID: does-not-exist", reply.Text)
}

func TestGracefulShutdownRefusesNewCreates(t *testing.T) {
	r, reg, sd, _ := newTestRouter(t)

	_, err := reg.Create(registry.CreateParams{MeetingID: "live", HasMeetingID: true, StrictMeetingID: true})
	require.NoError(t, err)

	sd.RequestGraceful()

	replyV2 := r.DispatchSync(signalling.Request{Dialect: signalling.DialectV2, Create: true, MeetingID: "m-new"})
	require.True(t, replyV2.IsError)
	assert.Equal(t, "graceful-shutdown", replyV2.Condition)

	replyV1 := r.DispatchSync(signalling.Request{Dialect: signalling.DialectV1})
	require.True(t, replyV1.IsError)
	assert.Equal(t, "graceful-shutdown", replyV1.Condition)
}

func TestV2CreateWithInvalidNameIsBadRequest(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	reply := r.DispatchSync(signalling.Request{Dialect: signalling.DialectV2, Create: true, MeetingID: "m-3", Name: "not-a-jid"})
	require.True(t, reply.IsError)
	assert.Equal(t, "bad_request", reply.Condition)
}

func TestV2LookupMissingIsItemNotFound(t *testing.T) {
	r, _, _, _ := newTestRouter(t)

	reply := r.DispatchSync(signalling.Request{Dialect: signalling.DialectV2, Create: false, MeetingID: "missing"})
	require.True(t, reply.IsError)
	assert.Equal(t, "item_not_found", reply.Condition)
	assert.Equal(t, "CONFERENCE_NOT_FOUND", reply.Reason)
}
