// Package token generates the per-call correlation tokens and per-client
// identities used to route async results and to serve as ZeroMQ publish
// topics. The original zrpc client hand-rolls a UUID v4 string from
// std::random_device (_examples/original_source/src/client.hpp, generate_token);
// zrpc replaces that with github.com/google/uuid, which produces the same
// 8-4-4-4-12 lowercase hex shape with version nibble 4 and variant nibble
// in {8,9,a,b} per RFC 4122.
package token

import "github.com/google/uuid"

// New returns a fresh, session-unique token suitable both as an async
// correlation token and as a client identity / publish topic.
func New() string {
	return uuid.New().String()
}
