// Package router implements the request router: dialect-specific
// resolution rules, error-to-protocol-reply conversion, and hand-off to
// the resolved conference's ingress queue. Grounded on the teacher's
// orchestrator (internal/app/orch/orchestrator.go), which plays the
// analogous "resolve target, convert domain errors, dispatch" role for
// room/media operations.
package router

import (
	"github.com/dkeye/voicebridge/internal/domain"
	"github.com/dkeye/voicebridge/internal/jidaddr"
	"github.com/dkeye/voicebridge/internal/registry"
	"github.com/dkeye/voicebridge/internal/routererr"
	"github.com/dkeye/voicebridge/internal/shutdown"
	"github.com/dkeye/voicebridge/internal/signalling"
)

// Router resolves and dispatches signalling requests against a Registry,
// refusing new creates while the bridge is GracefulRequested.
type Router struct {
	registry *registry.Registry
	shutdown *shutdown.Coordinator
}

// New returns a Router bound to reg and sd.
func New(reg *registry.Registry, sd *shutdown.Coordinator) *Router {
	return &Router{registry: reg, shutdown: sd}
}

func (r *Router) gracefulRequested() bool {
	return r.shutdown.State() == shutdown.GracefulRequested
}

// Dispatch resolves req and, on success, hands it off to the target
// conference's ingress queue asynchronously; the conference itself
// produces the reply via req.ReplyTo. On failure, it invokes req.ReplyTo
// with the converted protocol error reply directly and never touches the
// registry's conference set.
func (r *Router) Dispatch(req signalling.Request) {
	c, errReply, ok := r.resolve(req)
	if !ok {
		if req.ReplyTo != nil {
			req.ReplyTo(errReply)
		}
		return
	}
	if !c.Enqueue(req) {
		if req.ReplyTo != nil {
			req.ReplyTo(errorReply(req.Dialect, routererr.ErrBadRequest, "conference busy"))
		}
	}
}

// DispatchSync resolves and processes req inline, for tests and any
// synchronous call path. Never touches req.ReplyTo.
func (r *Router) DispatchSync(req signalling.Request) signalling.Reply {
	c, errReply, ok := r.resolve(req)
	if !ok {
		return errReply
	}
	return c.HandleSync(req)
}

type conferenceHandle interface {
	Enqueue(signalling.Request) bool
	HandleSync(signalling.Request) signalling.Reply
}

func (r *Router) resolve(req signalling.Request) (conferenceHandle, signalling.Reply, bool) {
	switch req.Dialect {
	case signalling.DialectV2:
		return r.resolveV2(req)
	default:
		return r.resolveV1(req)
	}
}

func (r *Router) resolveV1(req signalling.Request) (conferenceHandle, signalling.Reply, bool) {
	if req.ID == "" {
		if r.gracefulRequested() {
			return nil, errorReply(req.Dialect, routererr.ErrGracefulShutdown, ""), false
		}
		c, err := r.registry.Create(registry.CreateParams{
			Name:             req.Name,
			GID:              req.GID,
			MeetingID:        req.MeetingID,
			HasMeetingID:     req.MeetingID != "",
			RTCStatsEnabled:  req.RTCStatsEnabled,
			CallStatsEnabled: req.CallStatsEnabled,
			StrictMeetingID:  false,
		})
		if err != nil {
			return nil, errorReply(req.Dialect, err, ""), false
		}
		return c, signalling.Reply{}, true
	}

	c, found := r.registry.GetByID(req.ID)
	if !found {
		return nil, errorReply(req.Dialect, routererr.ErrNotFound, "Conference not found for ID: "+string(req.ID)), false
	}
	return c, signalling.Reply{}, true
}

func (r *Router) resolveV2(req signalling.Request) (conferenceHandle, signalling.Reply, bool) {
	if req.Create {
		if _, exists := r.registry.GetByMeetingID(req.MeetingID); exists {
			return nil, errorReply(req.Dialect, routererr.ErrAlreadyExists, ""), false
		}
		if r.gracefulRequested() {
			return nil, errorReply(req.Dialect, routererr.ErrGracefulShutdown, ""), false
		}
		if req.Name != "" && !jidaddr.Valid(req.Name) {
			return nil, errorReply(req.Dialect, routererr.ErrInvalidName, ""), false
		}
		c, err := r.registry.Create(registry.CreateParams{
			Name:             req.Name,
			GID:              domain.GIDColibri2,
			MeetingID:        req.MeetingID,
			HasMeetingID:     true,
			RTCStatsEnabled:  req.RTCStatsEnabled,
			CallStatsEnabled: req.CallStatsEnabled,
			StrictMeetingID:  true,
		})
		if err != nil {
			return nil, errorReply(req.Dialect, err, ""), false
		}
		return c, signalling.Reply{}, true
	}

	c, found := r.registry.GetByMeetingID(req.MeetingID)
	if !found {
		return nil, errorReply(req.Dialect, routererr.ErrNotFound, ""), false
	}
	return c, signalling.Reply{}, true
}

// errorReply converts an internal error kind into the dialect-specific
// protocol error reply per the router's error encoding table.
func errorReply(dialect signalling.Dialect, err error, text string) signalling.Reply {
	kind := routererr.Classify(err)
	reply := signalling.Reply{IsError: true, Text: text}

	if kind == routererr.KindGracefulShutdown {
		reply.Condition = "graceful-shutdown"
		return reply
	}

	if dialect == signalling.DialectV1 {
		reply.Condition = "bad_request"
		return reply
	}

	switch kind {
	case routererr.KindNotFound:
		reply.Condition = "item_not_found"
		reply.Reason = "CONFERENCE_NOT_FOUND"
	case routererr.KindAlreadyExists:
		reply.Condition = "conflict"
		reply.Reason = "CONFERENCE_ALREADY_EXISTS"
	default:
		reply.Condition = "bad_request"
	}
	return reply
}
