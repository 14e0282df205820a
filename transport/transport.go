// Package transport wires zrpc's three logical channels — sync
// request/reply, async result publish, event publish (§6 of the parent
// spec) — onto broker-less ZeroMQ sockets, via github.com/pebbe/zmq4.
//
// The teacher (_examples/BX-D-mini-RPC/transport) hand-rolls a length-
// prefixed TCP frame protocol plus a multiplexed *ClientTransport with a
// sequence-number pending map to solve exactly the problems ZeroMQ's
// ROUTER/DEALER sockets solve natively (identity-preserving multi-client
// request/reply, no manual "sticky packet" framing). Here that framing
// role is played by real ZeroMQ frames instead of a hand-rolled header,
// but the shape — a router-style server socket that preserves client
// identity, a dealer-style client socket, and a shared per-socket send
// lock — is carried over directly from transport/client_transport.go's
// sending mutex discipline.
package transport

import "time"

// Conventional endpoints per §6: request/reply, async result publish,
// event publish.
const (
	DefaultRequestPort = 5555
	DefaultAsyncPort   = 5556
	DefaultEventPort   = 5557
)

// DefaultPollInterval bounds how long a background poller blocks between
// checking its stop flag, since ZeroMQ's poller has no portable "wake me
// on close" primitive without a second control socket.
const DefaultPollInterval = 500 * time.Millisecond
