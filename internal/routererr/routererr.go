// Package routererr defines the internal error taxonomy the registry and
// router use, and Classify, which maps an error to its Kind; the table that
// converts each kind into a dialect-specific protocol error reply is the
// router's errorReply. Grounded on the teacher's ErrBackpressure sentinel
// idiom in internal/adapters/signal/signal.go: package-level sentinel
// errors, compared with errors.Is at the boundary that must translate them.
package routererr

import "errors"

// Kind identifies one of the internal error taxonomy members. It exists
// separately from the sentinel errors below so the router's conversion
// table can switch on it without string comparison.
type Kind int

const (
	// KindNone is the zero value; never returned from Classify for a
	// non-nil error without a bug elsewhere.
	KindNone Kind = iota
	KindNotFound
	KindAlreadyExists
	KindGracefulShutdown
	KindInvalidName
	KindBadRequest
)

var (
	// ErrNotFound means the target conference does not exist.
	ErrNotFound = errors.New("conference not found")
	// ErrAlreadyExists means a strict meeting-id collision occurred.
	ErrAlreadyExists = errors.New("conference already exists")
	// ErrGracefulShutdown means creation was refused because graceful
	// shutdown is in progress.
	ErrGracefulShutdown = errors.New("bridge is shutting down")
	// ErrInvalidName means the requested conference name is not a
	// syntactically valid addressable identifier.
	ErrInvalidName = errors.New("invalid conference name")
	// ErrBadRequest means the request envelope itself was malformed.
	ErrBadRequest = errors.New("malformed request")
)

// Classify maps err to its Kind via errors.Is, falling back to
// KindBadRequest for any non-nil error that isn't one of the sentinels
// above. Returns KindNone for a nil error.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrGracefulShutdown):
		return KindGracefulShutdown
	case errors.Is(err, ErrInvalidName):
		return KindInvalidName
	default:
		return KindBadRequest
	}
}
