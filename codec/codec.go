// Package codec provides the self-describing, positional wire codec used
// by every zrpc envelope (§4.1 of SPEC_FULL.md's parent spec, "C1"). It is
// deliberately shaped like the codec libraries it wraps rather than
// wrapping a single "encode this struct" call: Encoder/Decoder are
// streamed one value at a time so a caller can decode a method name off
// the front of a payload without knowing in advance how many argument
// values follow, then keep decoding from the same cursor.
//
// This mirrors the teacher's codec.Codec/GetCodec shape
// (_examples/BX-D-mini-RPC/codec/codec.go) generalized from "encode one
// *RPCMessage" to "encode N positional values into one buffer".
package codec

import "io"

// Encoder writes successive self-describing values into one stream.
type Encoder interface {
	Encode(v any) error
}

// Decoder reads successive self-describing values off one stream, in the
// order they were written.
type Decoder interface {
	Decode(v any) error
}

// Codec is the pluggable serialization format. It is an external
// collaborator per the parent spec (§1) — zrpc only depends on this
// interface, never on a concrete format, in dispatch/server/client.
type Codec interface {
	NewEncoder(w io.Writer) Encoder
	NewDecoder(r io.Reader) Decoder
	Name() string
}

// ByName returns the built-in codec registered under name, defaulting to
// msgpack (the spec's "MessagePack-style" wire format) when name is empty.
func ByName(name string) (Codec, bool) {
	switch name {
	case "", "msgpack":
		return Msgpack{}, true
	case "json":
		return JSON{}, true
	default:
		return nil, false
	}
}
