package transport

import (
	"fmt"

	zmq "github.com/pebbe/zmq4"
)

// RouterSocket is the server's request/reply socket (§4.3): a ROUTER
// socket preserves the identity frame of whichever DEALER socket sent a
// given request, so the reply can be routed back to the right client
// without the server tracking connections itself.
type RouterSocket struct {
	sock *zmq.Socket
}

// BindRouter creates and binds a ROUTER socket at endpoint (e.g.
// "tcp://*:5555").
func BindRouter(endpoint string) (*RouterSocket, error) {
	sock, err := zmq.NewSocket(zmq.ROUTER)
	if err != nil {
		return nil, fmt.Errorf("transport: new router socket: %w", err)
	}
	if err := sock.Bind(endpoint); err != nil {
		sock.Close()
		return nil, fmt.Errorf("transport: bind router %s: %w", endpoint, err)
	}
	return &RouterSocket{sock: sock}, nil
}

// Recv blocks for the next request, returning the sender's identity and
// the request payload. ROUTER sockets deliver [identity][empty][payload]
// for a DEALER peer that sends [empty][payload]; the empty delimiter
// frame is consumed here and never surfaced.
func (r *RouterSocket) Recv() (clientID string, payload []byte, err error) {
	parts, err := r.sock.RecvMessageBytes(0)
	if err != nil {
		return "", nil, err
	}
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("transport: router recv: expected 3 frames, got %d", len(parts))
	}
	return string(parts[0]), parts[2], nil
}

// Reply sends payload back to clientID, preserving the identity/empty
// envelope the ROUTER socket needs to route it.
func (r *RouterSocket) Reply(clientID string, payload []byte) error {
	_, err := r.sock.SendMessage(clientID, "", payload)
	return err
}

func (r *RouterSocket) Close() error { return r.sock.Close() }
