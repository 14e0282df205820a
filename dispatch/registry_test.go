package dispatch

import (
	"bytes"
	"errors"
	"testing"

	"zrpc/codec"
	"zrpc/errcode"
)

func encodeCall(t *testing.T, c codec.Codec, method string, args ...any) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	enc := c.NewEncoder(buf)
	if err := enc.Encode(method); err != nil {
		t.Fatalf("encode method: %v", err)
	}
	for _, a := range args {
		if err := enc.Encode(a); err != nil {
			t.Fatalf("encode arg %v: %v", a, err)
		}
	}
	return buf.Bytes()
}

func decodeReply(t *testing.T, c codec.Codec, payload []byte, out any) errcode.Code {
	t.Helper()
	dec := c.NewDecoder(bytes.NewReader(payload))
	var code errcode.Code
	if err := dec.Decode(&code); err != nil {
		t.Fatalf("decode reply code: %v", err)
	}
	if code == errcode.NoError && out != nil {
		if err := dec.Decode(out); err != nil {
			t.Fatalf("decode reply value: %v", err)
		}
	}
	return code
}

func TestRegistryFuncRoundTrip(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterFunc("add_integer", func(a, b int) int { return a + b }); err != nil {
		t.Fatalf("register: %v", err)
	}

	c := codec.Msgpack{}
	req := Request{ClientID: "c1", Payload: encodeCall(t, c, "add_integer", -1, -2)}
	resp := r.Dispatch(c, req, nil)

	var sum int
	if code := decodeReply(t, c, resp.Payload, &sum); code != errcode.NoError {
		t.Fatalf("code = %v, want NoError", code)
	}
	if sum != -3 {
		t.Fatalf("sum = %d, want -3", sum)
	}
}

func TestRegistryUnknownMethod(t *testing.T) {
	r := NewRegistry()
	c := codec.Msgpack{}
	req := Request{Payload: encodeCall(t, c, "nonexist")}
	resp := r.Dispatch(c, req, nil)
	if resp.Code != errcode.BadMethod {
		t.Fatalf("code = %v, want BadMethod", resp.Code)
	}
}

func TestRegistryBadPayload(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterFunc("add_integer", func(a, b int) int { return a + b }); err != nil {
		t.Fatalf("register: %v", err)
	}
	c := codec.Msgpack{}
	req := Request{Payload: encodeCall(t, c, "add_integer", "not-an-int", 2)}
	resp := r.Dispatch(c, req, nil)
	if resp.Code != errcode.BadPayload {
		t.Fatalf("code = %v, want BadPayload", resp.Code)
	}
}

func TestRegistryHandlerErrorBecomesUnknown(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	if err := r.RegisterFunc("fail", func() error { return boom }); err != nil {
		t.Fatalf("register: %v", err)
	}
	c := codec.Msgpack{}
	resp := r.Dispatch(c, Request{Payload: encodeCall(t, c, "fail")}, nil)
	if resp.Code != errcode.Unknown {
		t.Fatalf("code = %v, want Unknown", resp.Code)
	}
}

func TestRegistryHandlerPanicBecomesUnknown(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterFunc("panics", func() int { panic("boom") }); err != nil {
		t.Fatalf("register: %v", err)
	}
	c := codec.Msgpack{}
	resp := r.Dispatch(c, Request{Payload: encodeCall(t, c, "panics")}, nil)
	if resp.Code != errcode.Unknown {
		t.Fatalf("code = %v, want Unknown", resp.Code)
	}
}

func TestRegisterRejectsPointerArg(t *testing.T) {
	r := NewRegistry()
	err := r.RegisterFunc("bad", func(p *int) int { return *p })
	if err == nil {
		t.Fatal("expected error registering handler with pointer argument")
	}
}

func TestRegisterRejectsPointerReturn(t *testing.T) {
	r := NewRegistry()
	err := r.RegisterFunc("bad", func() *int { return nil })
	if err == nil {
		t.Fatal("expected error registering handler with pointer return")
	}
}

func TestRegisterMethodBindsReceiver(t *testing.T) {
	r := NewRegistry()
	foo := &fooService{offset: 1}
	if err := r.RegisterMethod("foo.add1", foo, "Add1"); err != nil {
		t.Fatalf("register method: %v", err)
	}
	c := codec.Msgpack{}
	resp := r.Dispatch(c, Request{Payload: encodeCall(t, c, "foo.add1", 41)}, nil)
	var got int
	if code := decodeReply(t, c, resp.Payload, &got); code != errcode.NoError {
		t.Fatalf("code = %v, want NoError", code)
	}
	if got != 42 {
		t.Fatalf("got = %d, want 42", got)
	}
}

type fooService struct{ offset int }

func (f *fooService) Add1(x int) int { return x + f.offset }

func TestRegistryAsyncInvokesCallbackViaPublish(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterAsync("async_method", func(cb func(int), x int) {
		cb(x * 2)
	}); err != nil {
		t.Fatalf("register async: %v", err)
	}

	c := codec.Msgpack{}
	var gotToken string
	var gotArgs []any
	publish := func(token string, cbArgs ...any) error {
		gotToken = token
		gotArgs = cbArgs
		return nil
	}

	req := Request{Payload: encodeCall(t, c, "async_method", "tok-1", 21)}
	resp := r.Dispatch(c, req, publish)
	if resp.Code != errcode.NoError {
		t.Fatalf("code = %v, want NoError", resp.Code)
	}
	if gotToken != "tok-1" {
		t.Fatalf("token = %q, want tok-1", gotToken)
	}
	if len(gotArgs) != 1 {
		t.Fatalf("cbArgs = %v, want one element", gotArgs)
	}
	got, ok := gotArgs[0].(int)
	if !ok || got != 42 {
		t.Fatalf("cbArgs[0] = %v (%T), want int 42", gotArgs[0], gotArgs[0])
	}
}

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry()
	_ = r.RegisterFunc("b_method", func() {})
	_ = r.RegisterFunc("a_method", func() {})
	list := r.List()
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	if list[0][:8] != "a_method" {
		t.Fatalf("list[0] = %q, want to start with a_method", list[0])
	}
}
