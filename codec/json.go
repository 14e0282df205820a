package codec

import (
	"encoding/json"
	"io"
)

// JSON is the human-readable alternative codec, matching the teacher's
// own JSONCodec (_examples/BX-D-mini-RPC/codec/json_codec.go). Unlike the
// teacher's codec, which serializes exactly one *RPCMessage per call,
// this one leans on encoding/json's own streaming behavior:
// *json.Encoder.Encode writes one JSON value per call with no framing
// needed between them, and *json.Decoder.Decode consumes them back off
// the stream one at a time — exactly the positional, self-describing
// semantics Codec requires.
type JSON struct{}

func (JSON) NewEncoder(w io.Writer) Encoder { return json.NewEncoder(w) }
func (JSON) NewDecoder(r io.Reader) Decoder { return json.NewDecoder(r) }
func (JSON) Name() string                   { return "json" }
