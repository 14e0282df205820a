package codec

import "bytes"

// EncodeValues concatenates values, in order, into one self-describing
// buffer. It is the direct implementation of C1's contract: "given a
// variadic sequence of values with statically known types, produce one
// self-describing byte buffer."
func EncodeValues(c Codec, values ...any) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := c.NewEncoder(buf)
	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DecodeValues populates targets, in order, from data. It stops at the
// first value that fails to decode: targets before it keep what was
// decoded into them and targets after it are left untouched, so a
// caller that receives an error should not trust any target's contents.
func DecodeValues(c Codec, data []byte, targets ...any) error {
	dec := c.NewDecoder(bytes.NewReader(data))
	for _, t := range targets {
		if err := dec.Decode(t); err != nil {
			return err
		}
	}
	return nil
}
