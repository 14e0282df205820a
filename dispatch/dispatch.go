// Package dispatch is the handler registry and typed invocation layer
// (C2 of the parent spec): it maps a method name to a type-erased
// invoker that owns enough reflected type information to decode its
// arguments off the wire and encode its return value back onto it.
//
// It is grounded on the teacher's server/service.go, which does the same
// job for a narrower case (methods must take exactly (*Args, *Reply) and
// return error, found by scanning a receiver's exported methods via
// reflect.Type.Method). zrpc generalizes that to arbitrary positional
// argument lists and return types, registered one function or bound
// method at a time rather than by scanning a whole receiver, because the
// parent spec's calling convention (`call<int>("add_integer", -1, -2)`)
// has no room for an Args/Reply pointer pair.
package dispatch

import (
	"bytes"
	"io"

	"zrpc/errcode"
)

// Request is the not-yet-decoded view of one incoming call: Payload
// starts with the encoded method name, followed by its arguments (or,
// for an async call, a token followed by its arguments).
type Request struct {
	ClientID string
	Payload  []byte
}

// Response is a fully encoded reply envelope: Payload already holds
// encode(code[, return value]) and needs no further processing before
// being written to the wire.
type Response struct {
	Code    errcode.Code
	Payload []byte
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
