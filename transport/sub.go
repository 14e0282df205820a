package transport

import (
	"fmt"

	zmq "github.com/pebbe/zmq4"
)

// SubSocket is the client side of a PubSocket fan-out channel. A freshly
// connected SubSocket is subscribed to nothing; callers opt into topics
// with Subscribe, mirroring how the client only wants its own identity's
// async results and only the event names it has actually registered a
// handler for.
type SubSocket struct {
	sock *zmq.Socket
}

// ConnectSub creates a SUB socket and connects it to endpoint.
func ConnectSub(endpoint string) (*SubSocket, error) {
	sock, err := zmq.NewSocket(zmq.SUB)
	if err != nil {
		return nil, fmt.Errorf("transport: new sub socket: %w", err)
	}
	if err := sock.Connect(endpoint); err != nil {
		sock.Close()
		return nil, fmt.Errorf("transport: connect sub %s: %w", endpoint, err)
	}
	return &SubSocket{sock: sock}, nil
}

func (s *SubSocket) Subscribe(topic string) error   { return s.sock.SetSubscribe(topic) }
func (s *SubSocket) Unsubscribe(topic string) error { return s.sock.SetUnsubscribe(topic) }

// Recv blocks for the next published message and splits it back into its
// topic and payload frames.
func (s *SubSocket) Recv() (topic string, payload []byte, err error) {
	parts, err := s.sock.RecvMessageBytes(0)
	if err != nil {
		return "", nil, err
	}
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("transport: sub recv: expected 2 frames, got %d", len(parts))
	}
	return string(parts[0]), parts[1], nil
}

func (s *SubSocket) Close() error { return s.sock.Close() }

// raw exposes the underlying socket to Poller, which needs it to build a
// zmq.Poller across several SubSockets at once.
func (s *SubSocket) raw() *zmq.Socket { return s.sock }
