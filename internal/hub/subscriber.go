package hub

import "reflect"

// Subscriber receives events of type T published on a Hub.
//
// Receive is called synchronously from Publish with a copy of the event. Implementations
// must not mutate data the event shares by reference and should return promptly.
type Subscriber[T any] interface {
	Receive(event T)
}

// Func adapts an ordinary function or bound method value to a Subscriber.
// It lets one receiver handle several event types, one method per type:
//
//	hub.SubscribeMethod(h, dog, dog.Sleep)
type Func[T any] func(event T)

// Receive calls f(event).
func (f Func[T]) Receive(event T) {
	f(event)
}

// handle is the type-erased view of a *Handle[T] kept in a registry entry.
type handle interface {
	ID() string
	EventType() reflect.Type
	ReceiverType() reflect.Type
}

// Handle is the hub-owned wrapper around one subscribed receiver.
// It is returned from Subscribe so callers can get back to the receiver later.
type Handle[T any] struct {
	id        string
	seq       uint64
	eventType reflect.Type
	receiver  Subscriber[T]
	// owner is the concrete object behind receiver. For Subscribe it is the
	// receiver itself, for SubscribeMethod it is the object the method is bound to.
	owner any
}

// ID returns the unique identifier assigned at subscription time.
func (h *Handle[T]) ID() string {
	return h.id
}

// Seq returns the position of the subscription within its hub, starting at 1.
func (h *Handle[T]) Seq() uint64 {
	return h.seq
}

// EventType returns the event type the handle was registered under.
func (h *Handle[T]) EventType() reflect.Type {
	return h.eventType
}

// ReceiverType returns the concrete type of the subscribed receiver.
func (h *Handle[T]) ReceiverType() reflect.Type {
	return reflect.TypeOf(h.owner)
}

// Receiver returns the subscriber the handle delivers to.
func (h *Handle[T]) Receiver() Subscriber[T] {
	return h.receiver
}

// As recovers the concrete receiver behind a handle. The boolean is false when the
// receiver is not of type R.
//
//	dog, ok := hub.As[*Dog](handle)
func As[R any, T any](h *Handle[T]) (R, bool) {
	r, ok := h.owner.(R)
	return r, ok
}
