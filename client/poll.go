package client

import (
	"bytes"
	"log"
	"time"
)

// PollOnce runs exactly one receive cycle across the async-result and
// event sockets and returns the number of messages it handled. A
// negative timeout waits indefinitely; this is the cooperative entry
// point §4.5 describes as an alternative to a dedicated poller thread.
func (c *Client) PollOnce(timeout time.Duration) (int, error) {
	ready, err := c.poller.Wait(timeout)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, sock := range ready {
		switch sock {
		case c.asyncSub:
			c.handleAsync()
			n++
		case c.eventSub:
			c.handleEvent()
			n++
		}
	}
	return n, nil
}

// Run polls in a loop on a dedicated goroutine until Close is called.
// It wakes up at least every pollTimeout to observe the stop channel,
// since the underlying zmq poller has no portable "wake on close"
// primitive short of a second control socket.
func (c *Client) Run() {
	go func() {
		defer close(c.done)
		for {
			select {
			case <-c.stop:
				return
			default:
			}
			if _, err := c.PollOnce(pollTimeout); err != nil {
				log.Printf("zrpc: client: poll: %v", err)
			}
		}
	}()
}

// handleAsync decodes [token, cb_args…] off one async-result message
// and hands the token lookup and the remaining decode cursor to the
// in-flight table, which removes the entry before running its
// continuation (§9's "remove before invoke").
func (c *Client) handleAsync() {
	_, payload, err := c.asyncSub.Recv()
	if err != nil {
		log.Printf("zrpc: client: async recv: %v", err)
		return
	}

	dec := c.codec.NewDecoder(bytes.NewReader(payload))
	var tok string
	if err := dec.Decode(&tok); err != nil {
		// Not every message on this topic is a real async result: the
		// handshake ack is a bare literal, not a codec-encoded token. Any
		// genuine decode failure looks identical from here, so just drop.
		return
	}
	c.inFlight.PopAndRun(tok, dec)
}

// handleEvent decodes the event name off one event message and hands
// the lookup and the remaining decode cursor to the subscription table.
func (c *Client) handleEvent() {
	_, payload, err := c.eventSub.Recv()
	if err != nil {
		log.Printf("zrpc: client: event recv: %v", err)
		return
	}

	dec := c.codec.NewDecoder(bytes.NewReader(payload))
	var name string
	if err := dec.Decode(&name); err != nil {
		log.Printf("zrpc: client: bad event payload: %v", err)
		return
	}
	if !c.subs.Dispatch(name, dec) {
		log.Printf("zrpc: client: event %q has no subscriber, dropping", name)
	}
}
