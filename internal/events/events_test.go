package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitInvokesAllHandlers(t *testing.T) {
	e := New()
	var seen []Kind
	e.AddHandler(func(ev Event) { seen = append(seen, ev.Kind) })
	e.AddHandler(func(ev Event) { seen = append(seen, ev.Kind) })

	e.Emit(Event{Kind: Created, ConferenceID: "c1"})

	assert.Equal(t, []Kind{Created, Created}, seen)
}

func TestRemoveHandlerStopsDelivery(t *testing.T) {
	e := New()
	calls := 0
	token := e.AddHandler(func(Event) { calls++ })

	e.Emit(Event{Kind: Created})
	e.RemoveHandler(token)
	e.Emit(Event{Kind: Expired})

	assert.Equal(t, 1, calls)
}

func TestEmitSnapshotsHandlersSoAddDuringEmitDoesNotRecurse(t *testing.T) {
	e := New()
	calls := 0
	e.AddHandler(func(Event) {
		calls++
		e.AddHandler(func(Event) { calls++ })
	})

	e.Emit(Event{Kind: Created})
	assert.Equal(t, 1, calls, "a handler added during emission must not run in the same Emit call")

	e.Emit(Event{Kind: Created})
	assert.Equal(t, 3, calls, "both handlers must run on the next Emit")
}
