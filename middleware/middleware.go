// Package middleware wraps the server's dispatch handler in an onion of
// cross-cutting concerns, exactly as the teacher's server does around
// its own businessHandler. HandlerFunc's shape moves from
// (context, *message.RPCMessage) to (context, dispatch.Request), the
// registry's own request/response types, since there is no separate
// wire-message layer here — dispatch.Registry.Dispatch already speaks
// the codec directly.
package middleware

import (
	"context"

	"zrpc/dispatch"
)

// HandlerFunc handles one already-framed request and returns its reply.
type HandlerFunc func(ctx context.Context, req dispatch.Request) *dispatch.Response

// Middleware wraps a HandlerFunc with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares into a single one, applied in argument
// order: Chain(A, B, C)(handler) == A(B(C(handler))), so execution runs
// A's before-code, then B's, then C's, then handler, then C's
// after-code, then B's, then A's.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
