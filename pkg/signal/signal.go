// Package signal provides typed event subscriptions for the editor's
// single-threaded event model.
//
// A [Signal] is a list of handlers invoked in subscription order when a value
// is emitted. Subscribing returns a [Subscription] handle whose Unsubscribe
// method is idempotent, so teardown paths can release handlers without
// tracking whether they already did.
//
// Signals are designed for the editor's cooperative, single-goroutine model:
// all subscription, emission, and unsubscription happens on the UI goroutine.
// They are not safe for concurrent use.
package signal

// Signal dispatches values of type T to subscribed handlers.
//
// The zero value is ready to use. Handlers run synchronously, in the order
// they subscribed. A handler that unsubscribes itself (or another handler)
// during an emission still sees the current emission complete with the
// handler set as it was when Emit was called; the removal applies to
// subsequent emissions.
type Signal[T any] struct {
	nextID  int
	entries []entry[T]
}

type entry[T any] struct {
	id int
	fn func(T)
}

// Subscription is a handle to a registered handler.
//
// Unsubscribe removes the handler from its signal. It is safe to call any
// number of times; calls after the first are no-ops. A nil Subscription is
// also safe to unsubscribe.
type Subscription struct {
	cancel func()
}

// Unsubscribe removes the subscribed handler. Idempotent.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

// Subscribe registers fn to be invoked on every subsequent Emit.
// The returned handle removes the registration; it never returns nil.
func (s *Signal[T]) Subscribe(fn func(T)) *Subscription {
	s.nextID++
	id := s.nextID
	s.entries = append(s.entries, entry[T]{id: id, fn: fn})
	return &Subscription{cancel: func() { s.remove(id) }}
}

// Emit invokes every currently subscribed handler with v, in subscription
// order.
func (s *Signal[T]) Emit(v T) {
	if len(s.entries) == 0 {
		return
	}
	// Snapshot so handlers can unsubscribe mid-emission without
	// perturbing this dispatch.
	snapshot := make([]entry[T], len(s.entries))
	copy(snapshot, s.entries)
	for _, e := range snapshot {
		e.fn(v)
	}
}

// Len returns the number of active subscriptions.
func (s *Signal[T]) Len() int { return len(s.entries) }

func (s *Signal[T]) remove(id int) {
	for i, e := range s.entries {
		if e.id == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}
