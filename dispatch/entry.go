package dispatch

import (
	"bytes"
	"log"
	"reflect"

	"zrpc/codec"
	"zrpc/errcode"
)

// Kind distinguishes a sync handler (computes its return directly) from
// an async one (returns an immediate acknowledgement and later invokes a
// callback that the framework turns into a publish).
type Kind int

const (
	Sync Kind = iota
	Async
)

// InvokeContext carries everything an entry's invoker needs beyond the
// raw arguments: who called, a decoder already positioned past the
// method name, the codec to encode the reply with, and (for async
// entries) how to publish a later callback invocation.
type InvokeContext struct {
	ClientID string
	Dec      codec.Decoder
	Codec    codec.Codec
	// Publish sends [token, cbArgs...] on the async result channel,
	// targeted at ClientID. Only used by Async entries.
	Publish func(token string, cbArgs ...any) error
}

// entry is the type-erased invoker described by C2: created once at
// registration, immutable, referenced for the server's lifetime.
type entry struct {
	name      string
	kind      Kind
	signature string

	fn        reflect.Value
	fnType    reflect.Type
	argTypes  []reflect.Type // wire argument types, excluding the async callback slot
	valueType reflect.Type   // non-error return type, or nil for void
	hasError  bool
	cbType    reflect.Type // async only
}

func newSyncEntry(name string, fn any) (*entry, error) {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if err := validateSyncSignature(t); err != nil {
		return nil, err
	}
	valueType, hasError, _ := splitReturn(t)

	argTypes := make([]reflect.Type, t.NumIn())
	for i := range argTypes {
		argTypes[i] = t.In(i)
	}

	return &entry{
		name:      name,
		kind:      Sync,
		signature: t.String(),
		fn:        v,
		fnType:    t,
		argTypes:  argTypes,
		valueType: valueType,
		hasError:  hasError,
	}, nil
}

func newAsyncEntry(name string, fn any) (*entry, error) {
	v := reflect.ValueOf(fn)
	t := v.Type()
	cbType, err := validateAsyncSignature(t)
	if err != nil {
		return nil, err
	}
	valueType, hasError, _ := splitReturn(t)

	argTypes := make([]reflect.Type, t.NumIn()-1)
	for i := range argTypes {
		argTypes[i] = t.In(i + 1)
	}

	return &entry{
		name:      name,
		kind:      Async,
		signature: t.String(),
		fn:        v,
		fnType:    t,
		argTypes:  argTypes,
		valueType: valueType,
		hasError:  hasError,
		cbType:    cbType,
	}, nil
}

// decodeArgs decodes len(argTypes) values off dec into a fresh
// reflect.Value slice, one default-constructed target per type — the
// "allocates a default-constructed argument tuple" step of §4.2.
func decodeArgs(dec codec.Decoder, argTypes []reflect.Type) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(argTypes))
	for i, at := range argTypes {
		ptr := reflect.New(at)
		if err := dec.Decode(ptr.Interface()); err != nil {
			return nil, err
		}
		args[i] = ptr.Elem()
	}
	return args, nil
}

// encodeReply builds encode(code[, value]) — the invariant that a
// non-error reply's return value is present iff the code is NoError.
func encodeReply(c codec.Codec, code errcode.Code, value *reflect.Value) []byte {
	buf := new(bytes.Buffer)
	enc := c.NewEncoder(buf)
	if err := enc.Encode(code); err != nil {
		log.Printf("zrpc: dispatch: encode reply code: %v", err)
		return nil
	}
	if code == errcode.NoError && value != nil {
		if err := enc.Encode(value.Interface()); err != nil {
			log.Printf("zrpc: dispatch: encode reply value: %v", err)
			return encodeReply(c, errcode.Unknown, nil)
		}
	}
	return buf.Bytes()
}

func errReply(ctx InvokeContext, code errcode.Code) *Response {
	return &Response{Code: code, Payload: encodeReply(ctx.Codec, code, nil)}
}

// invoke runs the handler and returns a fully encoded reply. It never
// panics out to the caller: a handler panic is caught, logged, and
// turned into errcode.Unknown, matching §4.2's failure semantics.
func (e *entry) invoke(ctx InvokeContext) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("zrpc: handler %q panicked: %v", e.name, r)
			resp = errReply(ctx, errcode.Unknown)
		}
	}()

	var token string
	if e.kind == Async {
		if err := ctx.Dec.Decode(&token); err != nil {
			return errReply(ctx, errcode.BadPayload)
		}
	}

	args, err := decodeArgs(ctx.Dec, e.argTypes)
	if err != nil {
		return errReply(ctx, errcode.BadPayload)
	}

	var callArgs []reflect.Value
	if e.kind == Async {
		callArgs = append([]reflect.Value{e.makeCallback(ctx, token)}, args...)
	} else {
		callArgs = args
	}

	results := e.fn.Call(callArgs)
	return e.encodeResults(ctx, results)
}

func (e *entry) encodeResults(ctx InvokeContext, results []reflect.Value) *Response {
	if e.hasError {
		errVal := results[len(results)-1]
		if !errVal.IsNil() {
			log.Printf("zrpc: handler %q returned error: %v", e.name, errVal.Interface().(error))
			return errReply(ctx, errcode.Unknown)
		}
	}
	if e.valueType != nil {
		value := results[0]
		return &Response{Code: errcode.NoError, Payload: encodeReply(ctx.Codec, errcode.NoError, &value)}
	}
	return &Response{Code: errcode.NoError, Payload: encodeReply(ctx.Codec, errcode.NoError, nil)}
}

// makeCallback synthesizes the server-side callback an async handler
// invokes, possibly on another goroutine, possibly much later: a
// reflect.MakeFunc closure that, when called with the handler's own
// result values, encodes and publishes [token, cbArgs...] on the async
// result channel (§9, "async callback = message hop"). A handler may
// invoke it zero, one, or many times; every invocation is a fresh
// publish under the same token.
func (e *entry) makeCallback(ctx InvokeContext, token string) reflect.Value {
	return reflect.MakeFunc(e.cbType, func(in []reflect.Value) []reflect.Value {
		cbArgs := make([]any, len(in))
		for i, v := range in {
			cbArgs[i] = v.Interface()
		}
		if err := ctx.Publish(token, cbArgs...); err != nil {
			log.Printf("zrpc: handler %q: publish callback: %v", e.name, err)
		}
		return nil
	})
}
