package conference

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/voicebridge/internal/domain"
	"github.com/dkeye/voicebridge/internal/signalling"
)

func TestEnqueueDeliversReplyAsynchronously(t *testing.T) {
	c := New("id-1", "room@example.com", domain.GIDNotSet, "m-1", true, false, false)
	defer c.Expire()

	replies := make(chan signalling.Reply, 1)
	ok := c.Enqueue(signalling.Request{ReplyTo: func(r signalling.Reply) { replies <- r }})
	require.True(t, ok)

	select {
	case r := <-replies:
		assert.Equal(t, domain.ConferenceID("id-1"), r.ConferenceID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reply")
	}
}

func TestHandleSyncProcessesInline(t *testing.T) {
	c := New("id-2", "", domain.GIDNotSet, "", false, false, false)
	defer c.Expire()

	reply := c.HandleSync(signalling.Request{})
	assert.Equal(t, domain.ConferenceID("id-2"), reply.ConferenceID)
}

func TestExpireIsIdempotentAndStopsAcceptingWork(t *testing.T) {
	c := New("id-3", "", domain.GIDNotSet, "", false, false, false)

	c.Expire()
	c.Expire() // must not panic on double-close

	assert.True(t, c.Expired())
	assert.False(t, c.Enqueue(signalling.Request{}), "an expired conference must refuse new work")
}

func TestDebugSnapshotScopesByFullFlag(t *testing.T) {
	c := New("id-4", "room@example.com", domain.GIDColibri2, "m-4", true, true, true)
	defer c.Expire()

	shallow := c.DebugSnapshot(false, "")
	_, hasRTC := shallow.Get("rtcstats_enabled")
	assert.False(t, hasRTC, "shallow projection must not include full-only fields")

	full := c.DebugSnapshot(true, "ep-1")
	v, ok := full.Get("endpoint_id")
	require.True(t, ok)
	assert.Equal(t, "ep-1", v)
}
