package client

import (
	"bytes"
	"fmt"

	"zrpc/codec"
	"zrpc/errcode"
)

// call is the shared implementation behind Call and CallVoid: encode
// [method, args…], send, decode the error code, and — if wantValue —
// decode R immediately after it. §4.4 point 5's "if R is non-void,
// decode R immediately after the error code" is exactly the wantValue
// branch below; CallVoid is the R-is-void case.
func call[R any](c *Client, method string, args []any, wantValue bool) (R, error) {
	var zero R

	payload, err := codec.EncodeValues(c.codec, append([]any{method}, args...)...)
	if err != nil {
		return zero, fmt.Errorf("client: encode call %q: %w", method, err)
	}

	reply, err := c.dealer.Request(payload)
	if err != nil {
		return zero, fmt.Errorf("client: call %q: %w", method, err)
	}

	dec := c.codec.NewDecoder(bytes.NewReader(reply))
	var code errcode.Code
	if err := dec.Decode(&code); err != nil {
		return zero, fmt.Errorf("client: call %q: decode reply code: %w", method, err)
	}
	if code != errcode.NoError {
		return zero, errcode.New(code, method, "rpc call failed")
	}
	if !wantValue {
		return zero, nil
	}

	var v R
	if err := dec.Decode(&v); err != nil {
		return zero, fmt.Errorf("client: call %q: decode return value: %w", method, err)
	}
	return v, nil
}

// Call issues a synchronous call to method with args and returns its
// decoded return value, or a typed *errcode.RPCError if the server
// replied with a non-zero error code.
func Call[R any](c *Client, method string, args ...any) (R, error) {
	return call[R](c, method, args, true)
}

// CallVoid issues a synchronous call to a method with no return value.
func CallVoid(c *Client, method string, args ...any) error {
	_, err := call[struct{}](c, method, args, false)
	return err
}
