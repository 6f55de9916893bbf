package hub

import (
	"context"
	"reflect"
)

// Publication describes a single publish call to middleware.
type Publication struct {
	// EventType is the type of the published event.
	EventType reflect.Type
	// Subscribers is the number of handles the event is about to be delivered to.
	Subscribers int
}

// Dispatch delivers one publication and reports how many subscribers received it.
type Dispatch func(ctx context.Context, p Publication) (delivered int, err error)

// Middleware wraps the dispatch of every publish call on a hub.
// Middleware sees the publication metadata but never the event value.
type Middleware func(next Dispatch) Dispatch

func (h *Hub) wrap(d Dispatch) Dispatch {
	for i := len(h.middleware) - 1; i >= 0; i-- {
		d = h.middleware[i](d)
	}
	return d
}
