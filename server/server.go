// Package server implements the RPC server: service registration, a
// middleware chain wrapping dispatch, and the single-threaded request
// serve loop described by the parent design's C3.
//
// Request processing pipeline:
//
//	router.Recv() (single goroutine reads frames)
//	  → Middleware chain → dispatch.Registry.Dispatch (reflect.Call) → router.Reply
//
// This keeps the teacher's onion shape (Accept → per-request pipeline →
// middleware(businessHandler)) but collapses handleConn/handleRequest's
// per-connection goroutine fan-out: a ROUTER socket already multiplexes
// many clients over one socket, and the design requires the serve loop
// itself to be single-threaded and reentrancy-free, leaving concurrency
// to be a per-handler choice (the async pattern) rather than a
// per-connection one.
package server

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"zrpc/codec"
	"zrpc/dispatch"
	"zrpc/middleware"
	"zrpc/transport"
)

// State is the server's lifecycle state, per §4.3's state machine.
type State int32

const (
	Initialising State = iota
	Serving
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Initialising:
		return "Initialising"
	case Serving:
		return "Serving"
	case Stopping:
		return "Stopping"
	case Stopped:
		return "Stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Option configures a Server at construction.
type Option func(*Server)

// WithCodec selects the wire codec. Defaults to msgpack.
func WithCodec(c codec.Codec) Option {
	return func(s *Server) { s.codec = c }
}

// WithEndpoints overrides the default request/async/event endpoints.
func WithEndpoints(requestAddr, asyncAddr, eventAddr string) Option {
	return func(s *Server) {
		s.requestAddr = requestAddr
		s.asyncAddr = asyncAddr
		s.eventAddr = eventAddr
	}
}

// Server is the RPC server: owns a router socket for sync request/reply
// and two publish sockets, one for async results and one for events.
type Server struct {
	registry    *dispatch.Registry
	codec       codec.Codec
	middlewares []middleware.Middleware
	handler     middleware.HandlerFunc

	requestAddr string
	asyncAddr   string
	eventAddr   string

	router   *transport.RouterSocket
	asyncPub *transport.PubSocket
	eventPub *transport.PubSocket

	state atomic.Int32
	stop  atomic.Bool
}

// NewServer creates a server with an empty registry and the built-in
// list_methods/handshake methods already registered.
func NewServer(opts ...Option) *Server {
	s := &Server{
		registry:    dispatch.NewRegistry(),
		codec:       codec.Msgpack{},
		requestAddr: fmt.Sprintf("tcp://*:%d", transport.DefaultRequestPort),
		asyncAddr:   fmt.Sprintf("tcp://*:%d", transport.DefaultAsyncPort),
		eventAddr:   fmt.Sprintf("tcp://*:%d", transport.DefaultEventPort),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(int32(Initialising))
	s.registerBuiltins()
	return s
}

// State reports the server's current lifecycle state.
func (s *Server) State() State { return State(s.state.Load()) }

// Register registers a synchronous free-function handler.
func (s *Server) Register(name string, fn any) error {
	return s.registry.RegisterFunc(name, fn)
}

// RegisterMethod registers a synchronous handler bound to receiver,
// substituting for the parent design's register_method(name, receiver,
// member_fn) overload: Go's reflect.Value.MethodByName already
// retrieves a receiver-bound method value.
func (s *Server) RegisterMethod(name string, receiver any, methodName string) error {
	return s.registry.RegisterMethod(name, receiver, methodName)
}

// RegisterAsync registers an async handler whose first parameter is the
// callback the framework synthesizes at call time.
func (s *Server) RegisterAsync(name string, fn any) error {
	return s.registry.RegisterAsync(name, fn)
}

// Use appends a middleware to the chain. Middlewares registered before
// Serve is called are applied in the order they were added.
func (s *Server) Use(mw middleware.Middleware) {
	s.middlewares = append(s.middlewares, mw)
}

// PublishEvent broadcasts [name, args…] to every client subscribed to
// name. The topic is the event name itself, so a client only ever
// receives events it subscribed to at the transport layer rather than
// filtering every event in-process.
func (s *Server) PublishEvent(name string, args ...any) error {
	if s.eventPub == nil {
		return fmt.Errorf("server: PublishEvent called before Serve")
	}
	payload, err := codec.EncodeValues(s.codec, append([]any{name}, args...)...)
	if err != nil {
		return fmt.Errorf("server: encode event %q: %w", name, err)
	}
	return s.eventPub.Publish(name, payload)
}

// publishAsync sends [token, cbArgs…] on the async channel under topic
// clientID, implementing the "identity as subscription filter" design
// note: the topic itself carries the routing that the parent design's
// literal wire shape puts inside the encoded payload.
func (s *Server) publishAsync(clientID, token string, cbArgs ...any) error {
	payload, err := codec.EncodeValues(s.codec, append([]any{token}, cbArgs...)...)
	if err != nil {
		return fmt.Errorf("server: encode async result for %q: %w", token, err)
	}
	return s.asyncPub.Publish(clientID, payload)
}

// Serve binds the request/async/event sockets and runs the serve loop
// until Stop is called. It is single-threaded by contract: one
// goroutine owns the router socket end to end, and only spawns
// goroutines the handler itself chooses to spawn (the async pattern).
func (s *Server) Serve() error {
	router, err := transport.BindRouter(s.requestAddr)
	if err != nil {
		return fmt.Errorf("server: bind request socket: %w", err)
	}
	s.router = router

	asyncPub, err := transport.BindPub(s.asyncAddr)
	if err != nil {
		return fmt.Errorf("server: bind async socket: %w", err)
	}
	s.asyncPub = asyncPub

	eventPub, err := transport.BindPub(s.eventAddr)
	if err != nil {
		return fmt.Errorf("server: bind event socket: %w", err)
	}
	s.eventPub = eventPub

	s.handler = middleware.Chain(s.middlewares...)(s.dispatchOne)
	s.state.Store(int32(Serving))

	for {
		if s.stop.Load() {
			break
		}
		clientID, payload, err := s.router.Recv()
		if err != nil {
			if s.stop.Load() {
				break
			}
			log.Printf("zrpc: server: recv: %v", err)
			continue
		}

		req := dispatch.Request{ClientID: clientID, Payload: payload}
		resp := s.handler(context.Background(), req)
		if err := s.router.Reply(clientID, resp.Payload); err != nil {
			log.Printf("zrpc: server: reply to %s: %v", clientID, err)
		}
	}

	s.state.Store(int32(Stopped))
	return nil
}

// dispatchOne is the businessHandler at the bottom of the middleware
// chain: it decodes the method name, looks the handler up, and
// invokes it.
func (s *Server) dispatchOne(ctx context.Context, req dispatch.Request) *dispatch.Response {
	publish := func(token string, cbArgs ...any) error {
		return s.publishAsync(req.ClientID, token, cbArgs...)
	}
	return s.registry.Dispatch(s.codec, req, publish)
}

// Stop sets the stop flag; the next loop iteration exits. No drain of
// in-flight async callbacks is attempted, matching the documented
// absence of a graceful-drain guarantee.
func (s *Server) Stop() {
	s.state.Store(int32(Stopping))
	s.stop.Store(true)
	if s.router != nil {
		s.router.Close()
	}
}
