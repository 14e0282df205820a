package client

import (
	"fmt"
	"log"
	"reflect"

	"zrpc/codec"
	"zrpc/correlation"
)

var boolType = reflect.TypeOf(false)

// RegisterEvent subscribes to a named event and registers handler for
// it. handler must be a function taking the event's declared parameter
// tuple (no pointer- or reference-typed arguments, per §4.2's checks,
// which apply here too since the parameter list is decoded the same
// way) and returning exactly one bool: true to keep the subscription,
// false to unsubscribe.
//
// Subscription happens at the transport layer, on topic name, so a
// client only ever receives events it has actually registered a
// handler for. When the handler returns false, the topic is also
// unsubscribed at the transport layer.
func (c *Client) RegisterEvent(name string, handler any) error {
	v := reflect.ValueOf(handler)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return fmt.Errorf("client: event handler for %q must be a function", name)
	}
	if t.NumOut() != 1 || t.Out(0) != boolType {
		return fmt.Errorf("client: event handler for %q must return exactly one bool", name)
	}
	argTypes := make([]reflect.Type, t.NumIn())
	for i := range argTypes {
		argTypes[i] = t.In(i)
		switch argTypes[i].Kind() {
		case reflect.Ptr, reflect.Chan, reflect.UnsafePointer, reflect.Func:
			return fmt.Errorf("client: event handler for %q: argument %d (%s) is not serializable", name, i, argTypes[i])
		}
	}

	c.subs.Set(name, func(dec codec.Decoder) correlation.Decision {
		args := make([]reflect.Value, len(argTypes))
		for i, at := range argTypes {
			ptr := reflect.New(at)
			if err := dec.Decode(ptr.Interface()); err != nil {
				// A malformed publication isn't grounds to drop the
				// subscription; just skip this occurrence.
				return correlation.Keep
			}
			args[i] = ptr.Elem()
		}
		results := v.Call(args)
		decision := correlation.Decision(results[0].Bool())
		if decision == correlation.Unsubscribe {
			if err := c.eventSub.Unsubscribe(name); err != nil {
				log.Printf("zrpc: client: unsubscribe event %q: %v", name, err)
			}
		}
		return decision
	})

	if err := c.eventSub.Subscribe(name); err != nil {
		c.subs.Remove(name)
		return fmt.Errorf("client: subscribe event %q: %w", name, err)
	}
	return nil
}

// UnregisterEvent removes a previously registered event handler and its
// transport-level subscription.
func (c *Client) UnregisterEvent(name string) error {
	c.subs.Remove(name)
	return c.eventSub.Unsubscribe(name)
}
