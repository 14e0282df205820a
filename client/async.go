package client

import (
	"bytes"
	"fmt"
	"log"

	"zrpc/codec"
	"zrpc/errcode"
	"zrpc/token"
)

// AsyncCall issues an async request to method: it generates a token,
// registers a continuation that decodes a single R and invokes cb, and
// sends [method, tok, args…]. The synchronous send only carries the
// server's immediate acknowledgement (decoded exactly like Call); cb
// itself runs later, from the client's poller.
func AsyncCall[R any](c *Client, method string, cb func(R), args ...any) error {
	tok := token.New()
	c.inFlight.Insert(tok, func(dec codec.Decoder) {
		var v R
		if err := dec.Decode(&v); err != nil {
			log.Printf("zrpc: client: async %q: decode callback args: %v", method, err)
			return
		}
		cb(v)
	})

	if err := c.sendAsyncRequest(method, tok, args); err != nil {
		c.inFlight.Remove(tok)
		return err
	}
	return nil
}

// AsyncCallVoid is AsyncCall for a callback with no arguments.
func AsyncCallVoid(c *Client, method string, cb func(), args ...any) error {
	tok := token.New()
	c.inFlight.Insert(tok, func(dec codec.Decoder) {
		cb()
	})

	if err := c.sendAsyncRequest(method, tok, args); err != nil {
		c.inFlight.Remove(tok)
		return err
	}
	return nil
}

// sendAsyncRequest encodes [method, tok, args…], sends it, and decodes
// the acknowledgement's error code exactly like a sync call.
func (c *Client) sendAsyncRequest(method, tok string, args []any) error {
	payload, err := codec.EncodeValues(c.codec, append([]any{method, tok}, args...)...)
	if err != nil {
		return fmt.Errorf("client: encode async call %q: %w", method, err)
	}

	reply, err := c.dealer.Request(payload)
	if err != nil {
		return fmt.Errorf("client: async call %q: %w", method, err)
	}

	dec := c.codec.NewDecoder(bytes.NewReader(reply))
	var code errcode.Code
	if err := dec.Decode(&code); err != nil {
		return fmt.Errorf("client: async call %q: decode ack code: %w", method, err)
	}
	if code != errcode.NoError {
		return errcode.New(code, method, "async rpc call failed")
	}
	return nil
}
