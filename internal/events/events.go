// Package events is the synchronous fan-out emitter for conference
// lifecycle events. Grounded on the teacher's Registry pattern of a
// mutex-guarded map (internal/app/registry.go), adapted here to a
// mutex-guarded handler slice with copy-on-iterate semantics so emission
// never holds the lock while invoking a handler.
package events

import (
	"sync"

	"github.com/dkeye/voicebridge/internal/domain"
)

// Kind distinguishes the two lifecycle events a Conference's registry
// emits.
type Kind int

const (
	Created Kind = iota
	Expired
)

// Event carries the minimal conference identity needed by an observer;
// observers that need more read it from the conference themselves.
type Event struct {
	Kind         Kind
	ConferenceID domain.ConferenceID
	MeetingID    domain.MeetingID
	HasMeetingID bool
}

// Handler is invoked synchronously on the emitting goroutine. It must not
// block on the registry mutex; it may read snapshots.
type Handler func(Event)

// Emitter fans events out to a dynamically managed set of handlers.
type Emitter struct {
	mu       sync.Mutex
	handlers []Handler
}

// New returns an empty Emitter.
func New() *Emitter {
	return &Emitter{}
}

// AddHandler registers h and returns a token usable with RemoveHandler.
func (e *Emitter) AddHandler(h Handler) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, h)
	return len(e.handlers) - 1
}

// RemoveHandler removes the handler previously registered by AddHandler's
// returned token, if still present.
func (e *Emitter) RemoveHandler(token int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if token < 0 || token >= len(e.handlers) || e.handlers[token] == nil {
		return
	}
	e.handlers[token] = nil
}

// Emit invokes every registered handler with ev, on the caller's
// goroutine, against a snapshot copy of the handler list taken under the
// emitter's own mutex (never the registry mutex).
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	snapshot := make([]Handler, len(e.handlers))
	copy(snapshot, e.handlers)
	e.mu.Unlock()

	for _, h := range snapshot {
		if h != nil {
			h(ev)
		}
	}
}
