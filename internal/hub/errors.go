package hub

import "errors"

var (
	// ErrUndeclaredType is returned when subscribing to or publishing an event type the hub
	// was not constructed to support.
	ErrUndeclaredType = errors.New("event type not declared on hub")

	// ErrDuplicateType is returned by New when the same event type is declared twice.
	ErrDuplicateType = errors.New("event type declared more than once")

	// ErrNilSubscriber is returned when a nil receiver is subscribed.
	ErrNilSubscriber = errors.New("nil subscriber")

	// ErrTypeRecovery is reported when a stored handle does not resolve to the event type
	// of its registry entry. The handle is skipped.
	ErrTypeRecovery = errors.New("handle does not match registry event type")
)
