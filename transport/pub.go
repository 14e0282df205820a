package transport

import (
	"fmt"

	zmq "github.com/pebbe/zmq4"
)

// PubSocket is a one-to-many fan-out channel (§4.3): the server binds one
// for async results and one for events. Publications are fire-and-forget
// (§4.3, "the publisher does not know whether any subscriber received the
// frame"); slow-joiner loss for late subscribers is a known, documented
// property of PUB/SUB and is not compensated for here.
type PubSocket struct {
	sock *zmq.Socket
}

// BindPub creates and binds a PUB socket at endpoint.
func BindPub(endpoint string) (*PubSocket, error) {
	sock, err := zmq.NewSocket(zmq.PUB)
	if err != nil {
		return nil, fmt.Errorf("transport: new pub socket: %w", err)
	}
	if err := sock.Bind(endpoint); err != nil {
		sock.Close()
		return nil, fmt.Errorf("transport: bind pub %s: %w", endpoint, err)
	}
	return &PubSocket{sock: sock}, nil
}

// Publish sends a two-frame message: a plain-bytes topic frame a
// subscriber can prefix-match without decoding, followed by the
// self-describing payload. Using a raw topic frame (rather than folding
// the topic into the same encoded stream as the payload) is what lets
// ZeroMQ's own SUBSCRIBE filter do the routing instead of every
// subscriber decoding and discarding messages meant for someone else.
func (p *PubSocket) Publish(topic string, payload []byte) error {
	_, err := p.sock.SendMessage(topic, payload)
	return err
}

func (p *PubSocket) Close() error { return p.sock.Close() }
