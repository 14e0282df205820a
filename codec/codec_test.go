package codec

import (
	"bytes"
	"testing"
)

func TestByName(t *testing.T) {
	if c, ok := ByName(""); !ok || c.Name() != "msgpack" {
		t.Fatalf("ByName(\"\") = %v, %v, want msgpack codec", c, ok)
	}
	if c, ok := ByName("json"); !ok || c.Name() != "json" {
		t.Fatalf("ByName(json) = %v, %v, want json codec", c, ok)
	}
	if _, ok := ByName("xml"); ok {
		t.Fatal("ByName(xml) should not resolve")
	}
}

func testRoundTrip(t *testing.T, c Codec) {
	t.Helper()

	data, err := EncodeValues(c, "add_integer", -1, -2)
	if err != nil {
		t.Fatalf("EncodeValues: %v", err)
	}

	var method string
	var a, b int
	if err := DecodeValues(c, data, &method, &a, &b); err != nil {
		t.Fatalf("DecodeValues: %v", err)
	}
	if method != "add_integer" || a != -1 || b != -2 {
		t.Fatalf("got (%q, %d, %d), want (\"add_integer\", -1, -2)", method, a, b)
	}
}

func TestMsgpackRoundTrip(t *testing.T) { testRoundTrip(t, Msgpack{}) }
func TestJSONRoundTrip(t *testing.T)    { testRoundTrip(t, JSON{}) }

func TestStreamingDecodeContinuesFromCursor(t *testing.T) {
	c := Msgpack{}
	buf := new(bytes.Buffer)
	enc := c.NewEncoder(buf)
	if err := enc.Encode("foo.add1"); err != nil {
		t.Fatal(err)
	}
	if err := enc.Encode(2); err != nil {
		t.Fatal(err)
	}

	dec := c.NewDecoder(bytes.NewReader(buf.Bytes()))
	var method string
	if err := dec.Decode(&method); err != nil {
		t.Fatal(err)
	}
	if method != "foo.add1" {
		t.Fatalf("method = %q", method)
	}
	var arg int
	if err := dec.Decode(&arg); err != nil {
		t.Fatal(err)
	}
	if arg != 2 {
		t.Fatalf("arg = %d, want 2", arg)
	}
}

func TestDecodeTruncatedPayloadFails(t *testing.T) {
	c := Msgpack{}
	data, err := EncodeValues(c, "add_integer", -1)
	if err != nil {
		t.Fatal(err)
	}
	// Truncate: drop the last byte(s) so a full value can't be decoded.
	truncated := data[:len(data)-1]

	var method string
	var a, b int
	if err := DecodeValues(c, truncated, &method, &a, &b); err == nil {
		t.Fatal("expected decode error on truncated payload")
	}
}
