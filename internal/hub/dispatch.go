package hub

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pubsubhub/internal/validator"
)

// Subscribe registers s for events of type T and returns the handle the hub keeps for it.
// Subscribing the same receiver twice registers it twice; each registration is delivered to.
func Subscribe[T any](h *Hub, s Subscriber[T]) (*Handle[T], error) {
	return subscribe(h, s, s)
}

// SubscribeFunc registers fn for events of type T.
func SubscribeFunc[T any](h *Hub, fn func(T)) (*Handle[T], error) {
	if fn == nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", reflect.TypeOf((*T)(nil)).Elem(), ErrNilSubscriber)
	}

	f := Func[T](fn)
	return subscribe(h, f, f)
}

// SubscribeMethod registers fn for events of type T and records owner as the handle's
// receiver, so As can recover it. fn is normally a method value bound to owner.
func SubscribeMethod[T any](h *Hub, owner any, fn func(T)) (*Handle[T], error) {
	if fn == nil || validator.IsNil(owner) {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", reflect.TypeOf((*T)(nil)).Elem(), ErrNilSubscriber)
	}

	return subscribe(h, Func[T](fn), owner)
}

func subscribe[T any](h *Hub, s Subscriber[T], owner any) (*Handle[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	e, err := h.lookup(t)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	if validator.IsNil(s) {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", t, ErrNilSubscriber)
	}

	h.seq++
	hd := &Handle[T]{
		id:        uuid.NewString(),
		seq:       h.seq,
		eventType: t,
		receiver:  s,
		owner:     owner,
	}
	e.handles = append(e.handles, hd)

	h.logger.Debug("subscribed",
		zap.String("event_type", t.String()),
		zap.String("handle_id", hd.id),
		zap.Stringer("receiver_type", hd.ReceiverType()),
		zap.Int("subscribers", len(e.handles)),
	)

	return hd, nil
}

// Publish delivers event to every subscriber of T, in subscription order.
// It is PublishContext with a background context.
func Publish[T any](h *Hub, event T) error {
	return PublishContext(context.Background(), h, event)
}

// PublishContext delivers event to every subscriber of T, in subscription order, on the
// calling goroutine. The context is passed to middleware only; delivery itself cannot be
// cancelled.
//
// Subscribers added while the event is being delivered do not receive it. A panic raised
// by a subscriber propagates to the caller and the remaining subscribers are not called.
func PublishContext[T any](ctx context.Context, h *Hub, event T) error {
	t := reflect.TypeOf((*T)(nil)).Elem()

	e, err := h.lookup(t)
	if err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}

	handles := slices.Clone(e.handles)
	dispatch := h.wrap(func(ctx context.Context, p Publication) (int, error) {
		return deliver(h.logger, handles, event)
	})

	if _, err := dispatch(ctx, Publication{EventType: t, Subscribers: len(handles)}); err != nil {
		return fmt.Errorf("failed to publish %s: %w", t, err)
	}

	return nil
}

func deliver[T any](logger *zap.Logger, handles []handle, event T) (int, error) {
	var (
		delivered int
		errs      []error
	)

	for _, hd := range handles {
		typed, ok := hd.(*Handle[T])
		if !ok {
			err := fmt.Errorf("handle %s (%s) under %s: %w",
				hd.ID(), hd.EventType(), reflect.TypeOf((*T)(nil)).Elem(), ErrTypeRecovery)
			logger.Error("skipping handle",
				zap.String("handle_id", hd.ID()),
				zap.Stringer("receiver_type", hd.ReceiverType()),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}

		typed.receiver.Receive(event)
		delivered++
	}

	return delivered, errors.Join(errs...)
}

// Subscribers returns the number of handles registered for T.
func Subscribers[T any](h *Hub) (int, error) {
	e, err := h.lookup(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return 0, err
	}

	return len(e.handles), nil
}

// Handles returns the handles registered for T in subscription order.
func Handles[T any](h *Hub) ([]*Handle[T], error) {
	e, err := h.lookup(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}

	handles := make([]*Handle[T], 0, len(e.handles))
	for _, hd := range e.handles {
		if typed, ok := hd.(*Handle[T]); ok {
			handles = append(handles, typed)
		}
	}

	return handles, nil
}
