// Package correlation implements C5's client-side bookkeeping: the
// in-flight async table and the event subscription table. Both are
// grounded on the teacher's client/pending.go request-multiplexing map,
// generalized from "request ID -> reply channel" to "token ->
// type-erased continuation" and, for events, to "name -> handler".
package correlation

import (
	"log"
	"sync"
	"time"

	"zrpc/codec"
)

// Continuation is the type-erased closure a poller invokes once the
// matching async result payload arrives. dec is positioned right after
// the token the poller used to look this entry up, so the continuation
// only ever decodes its own callback arguments, never the prefix it
// didn't create.
type Continuation func(dec codec.Decoder)

type inFlightEntry struct {
	cont      Continuation
	createdAt time.Time
}

// InFlight is the token -> continuation table described by §3's
// "In-flight async entry" and guarded per §5: the mutex is held only
// across table mutation, never across a continuation's execution.
type InFlight struct {
	mu      sync.Mutex
	entries map[string]inFlightEntry
}

// NewInFlight returns an empty in-flight table.
func NewInFlight() *InFlight {
	return &InFlight{entries: make(map[string]inFlightEntry)}
}

// Insert records a continuation under token. Called from AsyncCall
// before the request is sent, so the entry exists before any reply
// (sync ack or async result) referencing it can possibly arrive.
func (f *InFlight) Insert(token string, cont Continuation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[token] = inFlightEntry{cont: cont, createdAt: time.Now()}
}

// PopAndRun removes token's entry, if present, while holding the lock,
// then invokes its continuation with dec after releasing the lock. This
// is the "remove before invoke" ordering §9 requires: it lets a
// continuation recursively issue a fresh AsyncCall without observing
// its own stale entry, and it makes a duplicate publication for an
// already-consumed token a silent no-op rather than a double-invoke.
func (f *InFlight) PopAndRun(token string, dec codec.Decoder) {
	f.mu.Lock()
	e, ok := f.entries[token]
	if ok {
		delete(f.entries, token)
	}
	f.mu.Unlock()

	if !ok {
		log.Printf("zrpc: correlation: unknown or already-consumed token %q, dropping", token)
		return
	}
	e.cont(dec)
}

// Remove drops token's entry, if present, without invoking it. Used
// when a send that would have made the entry reachable fails, so a
// call that never left the client doesn't leak a permanently pending
// continuation.
func (f *InFlight) Remove(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, token)
}

// Cancel drops every pending entry without invoking it, used on client
// shutdown. The spec does not promise pending continuations ever run
// once cancelled.
func (f *InFlight) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = make(map[string]inFlightEntry)
}

// Len reports the number of pending entries, for tests and diagnostics.
func (f *InFlight) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
