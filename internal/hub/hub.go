// Package hub implements a synchronous, in-process publish/subscribe hub keyed by
// event type.
//
// The set of event types a Hub supports is fixed when it is constructed with New.
// Subscribers register for one event type at a time through the generic Subscribe
// functions, and Publish delivers an event to every subscriber of its exact type in
// subscription order, directly on the caller's goroutine.
//
// A Hub is not safe for concurrent use. Callers that share one across goroutines must
// serialize access themselves.
package hub

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"pubsubhub/internal/validator"
)

// Hub owns one ordered registry entry per declared event type.
type Hub struct {
	registry   map[reflect.Type]*entry
	types      []reflect.Type
	middleware []Middleware
	logger     *zap.Logger
	seq        uint64
}

// entry holds the handles subscribed to a single event type, in subscription order.
type entry struct {
	eventType reflect.Type
	handles   []handle
}

// Option configures a Hub during New.
type Option func(h *Hub) error

// Supports declares T as an event type the hub accepts. Types are reported by Types in
// the order they were declared.
func Supports[T any]() Option {
	return func(h *Hub) error {
		return h.declare(reflect.TypeOf((*T)(nil)).Elem())
	}
}

// WithLogger sets the logger used by the hub. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Hub) error {
		if err := validator.Validate("hub logger", logger); err != nil {
			return err
		}
		h.logger = logger
		return nil
	}
}

// WithMiddleware appends publish middleware. The first middleware given is the outermost.
func WithMiddleware(middleware ...Middleware) Option {
	return func(h *Hub) error {
		for _, m := range middleware {
			if m == nil {
				return errors.New("nil middleware")
			}
		}
		h.middleware = append(h.middleware, middleware...)
		return nil
	}
}

// New creates a hub with one empty registry entry per declared event type.
func New(opts ...Option) (*Hub, error) {
	h := Hub{
		registry: make(map[reflect.Type]*entry),
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		if err := opt(&h); err != nil {
			return nil, fmt.Errorf("failed to configure hub: %w", err)
		}
	}

	h.logger = h.logger.Named("hub")
	h.logger.Debug("hub created", zap.Strings("event_types", typeNames(h.types)))

	return &h, nil
}

// Types returns the declared event types in declaration order.
func (h *Hub) Types() []reflect.Type {
	types := make([]reflect.Type, len(h.types))
	copy(types, h.types)
	return types
}

// Supported reports whether T was declared on the hub.
func Supported[T any](h *Hub) bool {
	_, ok := h.registry[reflect.TypeOf((*T)(nil)).Elem()]
	return ok
}

func (h *Hub) declare(t reflect.Type) error {
	if _, ok := h.registry[t]; ok {
		return fmt.Errorf("%s: %w", t, ErrDuplicateType)
	}

	h.registry[t] = &entry{eventType: t}
	h.types = append(h.types, t)

	return nil
}

func (h *Hub) lookup(t reflect.Type) (*entry, error) {
	e, ok := h.registry[t]
	if !ok {
		return nil, fmt.Errorf("%s: %w", t, ErrUndeclaredType)
	}

	return e, nil
}

func typeNames(types []reflect.Type) []string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return names
}
