package codec

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Msgpack is the default wire codec. *msgpack.Encoder and *msgpack.Decoder
// already implement Encode(any) error / Decode(any) error one value at a
// time, so they satisfy Encoder/Decoder without any adaptation — this is
// the shape the spec's "self-describing concatenation of positional
// values" describes.
type Msgpack struct{}

func (Msgpack) NewEncoder(w io.Writer) Encoder { return msgpack.NewEncoder(w) }
func (Msgpack) NewDecoder(r io.Reader) Decoder { return msgpack.NewDecoder(r) }
func (Msgpack) Name() string                   { return "msgpack" }
