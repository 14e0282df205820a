package middleware

import (
	"context"
	"time"

	"zrpc/dispatch"
	"zrpc/errcode"
)

// TimeoutMiddleware bounds how long a single dispatch is allowed to
// run. The parent design leaves per-call timeouts as a named extension
// point rather than a mandated behavior; this is that extension point,
// applied server-side across the whole handler chain rather than
// per-call on the client.
//
// The underlying handler keeps running after the timeout fires — Go
// gives no way to preempt a goroutine — so this only bounds how long
// the caller waits for a reply, not the handler's actual lifetime.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req dispatch.Request) *dispatch.Response {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan *dispatch.Response, 1)
			go func() {
				done <- next(ctx, req)
			}()

			select {
			case resp := <-done:
				return resp
			case <-ctx.Done():
				return &dispatch.Response{Code: errcode.Unknown}
			}
		}
	}
}
