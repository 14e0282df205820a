package correlation

import (
	"sync"

	"zrpc/codec"
)

// Decision is an event handler's return value: whether the client
// should keep receiving that event or unsubscribe from it.
type Decision bool

const (
	Keep        Decision = true
	Unsubscribe Decision = false
)

// EventHandler is the type-erased closure a poller invokes for a
// matched event name. dec is positioned right after the event name,
// so the handler only ever decodes its own declared parameter tuple.
// It reports whether to keep the subscription.
type EventHandler func(dec codec.Decoder) Decision

// Subscriptions is the event_name -> handler table described by §3's
// "Event subscription", guarded by the same discipline as InFlight: the
// lock covers only table mutation, never handler execution.
type Subscriptions struct {
	mu       sync.Mutex
	handlers map[string]EventHandler
}

// NewSubscriptions returns an empty subscription table.
func NewSubscriptions() *Subscriptions {
	return &Subscriptions{handlers: make(map[string]EventHandler)}
}

// Set registers or replaces the handler for name.
func (s *Subscriptions) Set(name string, h EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = h
}

// Remove drops name's handler, if any.
func (s *Subscriptions) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handlers, name)
}

// Dispatch looks up name's handler and, if present, invokes it with
// dec. If the handler returns Unsubscribe, the mapping is removed no
// later than this call returns, satisfying §3's "observed no later
// than the next poll cycle" invariant. It reports whether a handler was
// found at all.
func (s *Subscriptions) Dispatch(name string, dec codec.Decoder) (found bool) {
	s.mu.Lock()
	h, ok := s.handlers[name]
	s.mu.Unlock()
	if !ok {
		return false
	}

	if h(dec) == Unsubscribe {
		s.Remove(name)
	}
	return true
}
