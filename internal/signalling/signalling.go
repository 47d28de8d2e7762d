// Package signalling defines the wire-level request and reply shapes the
// router consumes and produces. It does not implement the XML/XMPP codec
// the real signalling transport would use — per scope, the core only
// consumes already-decoded requests and produces reply values, so these
// types are plain Go structs rather than any marshalling format.
package signalling

import "github.com/dkeye/voicebridge/internal/domain"

// Dialect distinguishes the two signalling protocol generations the router
// accepts.
type Dialect int

const (
	DialectV1 Dialect = iota
	DialectV2
)

// Request is the decoded form of either a dialect-v1 "conference" element
// or a dialect-v2 "conference-modify" element. Fields not meaningful to a
// given dialect are left at their zero value.
type Request struct {
	Dialect Dialect

	// v1 fields.
	ID domain.ConferenceID // optional; empty means "not specified"

	// v2 fields.
	Create bool

	// Shared fields.
	MeetingID        domain.MeetingID // optional in v1, required in v2
	Name             string           // optional addressable JID-shaped name
	GID              domain.GID       // optional, v1 only; GIDNotSet if absent
	RTCStatsEnabled  bool
	CallStatsEnabled bool

	// ReplyTo receives the produced Reply once the target conference (or
	// the router itself, for error replies) has one. Nil in the
	// synchronous dispatch path, where the reply is returned directly
	// instead.
	ReplyTo func(Reply)
}

// Reply is either a successful echo of the resolved conference's identity
// or an error wrapper. Exactly one of the two is meaningful; callers check
// IsError.
type Reply struct {
	IsError bool

	// Success fields.
	ConferenceID domain.ConferenceID
	MeetingID    domain.MeetingID
	GID          domain.GID

	// Error fields.
	Condition string // e.g. "bad_request", "item_not_found", "conflict"
	Reason    string // v2 structured reason extension, e.g. "CONFERENCE_NOT_FOUND"
	Text      string // human-readable detail, e.g. "Conference not found for ID: x"
}

// HealthCheckReply is the fixed success-or-error shape for a health-check
// request. Per scope, deeper probing happens elsewhere; Bridge.HealthCheck
// only reports whether producing the reply itself failed.
type HealthCheckReply struct {
	OK    bool
	Error string
}

// VersionReply answers a version query.
type VersionReply struct {
	Name    string
	Version string
	OS      string
}
