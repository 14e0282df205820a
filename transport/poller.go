package transport

import (
	"time"

	zmq "github.com/pebbe/zmq4"
)

// Poller is the "multi-fd wait primitive" §4.5 asks the client poller to
// use: a single blocking wait across the async-result and event
// SubSockets, so one goroutine can service both channels without busy
// looping between them.
type Poller struct {
	zp    *zmq.Poller
	socks []*SubSocket
}

// NewPoller builds a poller watching the given sockets for incoming
// messages.
func NewPoller(socks ...*SubSocket) *Poller {
	zp := zmq.NewPoller()
	for _, s := range socks {
		zp.Add(s.raw(), zmq.POLLIN)
	}
	return &Poller{zp: zp, socks: socks}
}

// Wait blocks up to timeout for any watched socket to become readable and
// returns the ones that are. A negative timeout waits indefinitely.
func (p *Poller) Wait(timeout time.Duration) ([]*SubSocket, error) {
	polled, err := p.zp.Poll(timeout)
	if err != nil {
		return nil, err
	}
	ready := make([]*SubSocket, 0, len(polled))
	for _, item := range polled {
		for _, s := range p.socks {
			if s.raw() == item.Socket {
				ready = append(ready, s)
				break
			}
		}
	}
	return ready, nil
}
