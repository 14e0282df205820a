package dispatch

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"zrpc/codec"
	"zrpc/errcode"
)

// Registry is the concurrency-safe name-to-entry map that backs a
// server's Register/RegisterAsync/RegisterMethod calls and its per-call
// Dispatch. It is grounded on the teacher's server.serviceMap, widened
// from receiver-scanning to one-function-or-bound-method-at-a-time
// registration and from a fixed (*Args, *Reply) shape to arbitrary
// reflected signatures.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// RegisterFunc registers a synchronous handler under name. fn must be a
// function whose arguments and return value(s) are all serializable by
// the codec in use (no pointers, channels, or funcs), optionally
// returning a trailing error. Registering the same name twice replaces
// the previous entry — last writer wins, matching the teacher's
// service map semantics.
func (r *Registry) RegisterFunc(name string, fn any) error {
	e, err := newSyncEntry(name, fn)
	if err != nil {
		return fmt.Errorf("dispatch: register %q: %w", name, err)
	}
	r.put(name, e)
	return nil
}

// RegisterMethod registers a bound method value obtained from receiver
// by name via reflection, substituting for the parent spec's separate
// register_method(name, receiver, memberFn) overload: Go's method
// values already carry the receiver bound in, so there is nothing else
// to plumb through.
func (r *Registry) RegisterMethod(name string, receiver any, methodName string) error {
	m := reflect.ValueOf(receiver).MethodByName(methodName)
	if !m.IsValid() {
		return fmt.Errorf("dispatch: register %q: no method %q on %T", name, methodName, receiver)
	}
	e, err := newSyncEntry(name, m.Interface())
	if err != nil {
		return fmt.Errorf("dispatch: register %q: %w", name, err)
	}
	r.put(name, e)
	return nil
}

// RegisterAsync registers an async handler under name. fn's first
// parameter must itself be a function (the callback); the framework
// synthesizes the actual callback value passed at call time, so callers
// never construct one themselves.
func (r *Registry) RegisterAsync(name string, fn any) error {
	e, err := newAsyncEntry(name, fn)
	if err != nil {
		return fmt.Errorf("dispatch: register async %q: %w", name, err)
	}
	r.put(name, e)
	return nil
}

func (r *Registry) put(name string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = e
}

func (r *Registry) lookup(name string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// List returns "name: signature" for every registered handler, sorted
// by name. It backs the built-in list_methods call.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, fmt.Sprintf("%s: %s", name, r.entries[name].signature))
	}
	return out
}

// Dispatch decodes the method name off req.Payload, looks it up, and
// invokes it. An unknown method name yields errcode.BadMethod without
// ever reaching the handler's own decode/invoke path.
func (r *Registry) Dispatch(c codec.Codec, req Request, publish func(token string, cbArgs ...any) error) *Response {
	dec := c.NewDecoder(bytesReader(req.Payload))

	var name string
	if err := dec.Decode(&name); err != nil {
		return &Response{Code: errcode.BadPayload, Payload: encodeReply(c, errcode.BadPayload, nil)}
	}

	e, ok := r.lookup(name)
	if !ok {
		return &Response{Code: errcode.BadMethod, Payload: encodeReply(c, errcode.BadMethod, nil)}
	}

	return e.invoke(InvokeContext{
		ClientID: req.ClientID,
		Dec:      dec,
		Codec:    c,
		Publish:  publish,
	})
}
