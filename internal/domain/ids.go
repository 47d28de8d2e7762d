// Package domain holds the value types shared across the registry, router,
// and conference packages. It carries no logic beyond construction and
// equality — the teacher repo's internal/domain package plays the same role
// for RoomName/RoomID/UserID.
package domain

// ConferenceID is the local, opaque id a bridge instance assigns to a
// Conference. It may be reused once the conference that held it has
// expired.
type ConferenceID string

// MeetingID is the externally-supplied identifier that, per the
// conference-modify (v2) dialect, is unique among live conferences.
type MeetingID string

// GID is the legacy numeric "global" conference id carried by the v1
// dialect. Opaque to the core; GIDNotSet marks "not specified" the way the
// original colibri code uses a sentinel rather than a pointer.
type GID int64

const (
	// GIDNotSet marks a v1 request that did not carry a gid.
	GIDNotSet GID = -1
	// GIDColibri2 is the sentinel gid value dialect-v2-created
	// conferences are tagged with, for legacy compatibility with tooling
	// that inspects gid.
	GIDColibri2 GID = -2
)
