package client

import (
	"testing"
	"time"

	"zrpc/errcode"
	"zrpc/server"
)

func startServerAndClient(t *testing.T) (*server.Server, *Client) {
	t.Helper()
	reqAddr := "inproc://" + t.Name() + "-req"
	asyncAddr := "inproc://" + t.Name() + "-async"
	eventAddr := "inproc://" + t.Name() + "-event"

	svr := server.NewServer(server.WithEndpoints(reqAddr, asyncAddr, eventAddr))
	go func() {
		if err := svr.Serve(); err != nil {
			t.Logf("serve: %v", err)
		}
	}()
	time.Sleep(50 * time.Millisecond)
	t.Cleanup(svr.Stop)

	cl, err := Dial(reqAddr, asyncAddr, eventAddr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { cl.Close() })

	return svr, cl
}

func TestCallSyncAddInteger(t *testing.T) {
	svr, cl := startServerAndClient(t)
	if err := svr.Register("add_integer", func(a, b int) int { return a + b }); err != nil {
		t.Fatalf("register: %v", err)
	}

	sum, err := Call[int](cl, "add_integer", -1, -2)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if sum != -3 {
		t.Fatalf("sum = %d, want -3", sum)
	}
}

func TestCallVoidMethod(t *testing.T) {
	svr, cl := startServerAndClient(t)
	var invoked bool
	if err := svr.Register("void_method", func() { invoked = true }); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := CallVoid(cl, "void_method"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if !invoked {
		t.Fatal("void_method was not invoked")
	}
}

func TestCallMemberMethod(t *testing.T) {
	svr, cl := startServerAndClient(t)
	foo := &fooReceiver{v: 1}
	if err := svr.RegisterMethod("foo.add1", foo, "Add1"); err != nil {
		t.Fatalf("register method: %v", err)
	}

	got, err := Call[int](cl, "foo.add1", 2)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if got != 3 {
		t.Fatalf("got = %d, want 3", got)
	}
}

type fooReceiver struct{ v int }

func (f *fooReceiver) Add1(x int) int { return x + f.v }

func TestCallBadMethod(t *testing.T) {
	_, cl := startServerAndClient(t)

	_, err := Call[int](cl, "nonexist")
	if err == nil {
		t.Fatal("expected error calling unregistered method")
	}
	rpcErr, ok := err.(*errcode.RPCError)
	if !ok {
		t.Fatalf("err = %v (%T), want *errcode.RPCError", err, err)
	}
	if rpcErr.Code != errcode.BadMethod {
		t.Fatalf("code = %v, want BadMethod", rpcErr.Code)
	}
}

func TestAsyncCallInvokesCallbackOnce(t *testing.T) {
	svr, cl := startServerAndClient(t)
	if err := svr.RegisterAsync("async_method", func(cb func(int), i int) {
		go cb(i)
	}); err != nil {
		t.Fatalf("register async: %v", err)
	}
	cl.Run()

	got := make(chan int, 1)
	if err := AsyncCall(cl, "async_method", func(v int) { got <- v }, 5); err != nil {
		t.Fatalf("async call: %v", err)
	}

	select {
	case v := <-got:
		if v != 5 {
			t.Fatalf("callback value = %d, want 5", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async callback")
	}
}

func TestEventKeepInvokesTwice(t *testing.T) {
	svr, cl := startServerAndClient(t)
	calls := make(chan [2]any, 4)
	if err := cl.RegisterEvent("event1", func(s string, i int) bool {
		calls <- [2]any{s, i}
		return true
	}); err != nil {
		t.Fatalf("register event: %v", err)
	}
	cl.Run()
	time.Sleep(50 * time.Millisecond) // let the SUB subscription settle before publishing

	if err := svr.PublishEvent("event1", "hello", 10); err != nil {
		t.Fatalf("publish 1: %v", err)
	}
	if err := svr.PublishEvent("event1", "hello", 10); err != nil {
		t.Fatalf("publish 2: %v", err)
	}

	for i := 0; i < 2; i++ {
		select {
		case got := <-calls:
			if got[0] != "hello" || got[1] != 10 {
				t.Fatalf("call %d = %v, want [hello 10]", i, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event invocation %d", i)
		}
	}
}
