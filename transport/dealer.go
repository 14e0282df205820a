package transport

import (
	"fmt"
	"sync"

	zmq "github.com/pebbe/zmq4"
)

// DealerSocket is the client's request socket (§4.4): a DEALER socket
// connected to the server's ROUTER, identified by a stable identity that
// doubles as the client's async-result publish topic (§9, "identity as
// subscription filter").
//
// The spec does not require Call/AsyncCall to be concurrently safe on
// the same socket, but permits an implementation to add a lock (§4.4);
// zrpc does, exactly like the teacher's ClientTransport.sending mutex
// (_examples/BX-D-mini-RPC/transport/client_transport.go) guards writes
// against interleaving.
type DealerSocket struct {
	mu   sync.Mutex
	sock *zmq.Socket
}

// ConnectDealer creates a DEALER socket with the given identity and
// connects it to endpoint.
func ConnectDealer(endpoint, identity string) (*DealerSocket, error) {
	sock, err := zmq.NewSocket(zmq.DEALER)
	if err != nil {
		return nil, fmt.Errorf("transport: new dealer socket: %w", err)
	}
	if err := sock.SetIdentity(identity); err != nil {
		sock.Close()
		return nil, fmt.Errorf("transport: set dealer identity: %w", err)
	}
	if err := sock.Connect(endpoint); err != nil {
		sock.Close()
		return nil, fmt.Errorf("transport: connect dealer %s: %w", endpoint, err)
	}
	return &DealerSocket{sock: sock}, nil
}

// Request sends payload and blocks for the single matching reply. A
// DEALER socket implicitly load-balances outstanding sends across a
// single connection in order, so a synchronous send-then-recv pair here
// is enough to get request/reply semantics without a sequence number —
// ZeroMQ's own frame queuing does the multiplexing the teacher's
// ClientTransport does by hand with pending channels.
func (d *DealerSocket) Request(payload []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.sock.SendMessage("", payload); err != nil {
		return nil, fmt.Errorf("transport: dealer send: %w", err)
	}
	parts, err := d.sock.RecvMessageBytes(0)
	if err != nil {
		return nil, fmt.Errorf("transport: dealer recv: %w", err)
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("transport: dealer recv: expected 2 frames, got %d", len(parts))
	}
	return parts[1], nil
}

func (d *DealerSocket) Close() error { return d.sock.Close() }
