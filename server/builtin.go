package server

import "log"

// registerBuiltins wires the two methods §4.3 specifies every server
// exposes without being asked: list_methods for introspection, and
// handshake for the slow-joiner workaround described in the design
// notes (a client waits for its own handshake to arrive on its async
// subscription before considering itself connected).
func (s *Server) registerBuiltins() {
	if err := s.registry.RegisterFunc("list_methods", func() []string {
		return s.registry.List()
	}); err != nil {
		log.Panicf("zrpc: server: register list_methods: %v", err)
	}

	if err := s.registry.RegisterFunc("handshake", func(id string) string {
		if s.asyncPub != nil {
			if err := s.asyncPub.Publish(id, []byte("handshake")); err != nil {
				log.Printf("zrpc: server: handshake publish to %q: %v", id, err)
			}
		}
		return "hello"
	}); err != nil {
		log.Panicf("zrpc: server: register handshake: %v", err)
	}
}
