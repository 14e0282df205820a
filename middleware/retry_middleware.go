package middleware

import (
	"context"
	"log"
	"time"

	"zrpc/dispatch"
	"zrpc/errcode"
)

// RetryMiddleware re-runs a dispatched request when it fails with
// errcode.Unknown, on the theory that an internal handler failure may
// be transient (e.g. a downstream dependency blip inside the handler).
// It never retries kBadMethod or kBadPayload, since re-dispatching
// those can't change the outcome. Retrying re-invokes the handler,
// so it is only safe for idempotent handlers — callers of Use should
// weigh that before adding it to the chain.
func RetryMiddleware(maxRetries int, baseDelay time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req dispatch.Request) *dispatch.Response {
			resp := next(ctx, req)
			for i := 0; i < maxRetries && resp.Code == errcode.Unknown; i++ {
				log.Printf("client=%s retry %d after %s", req.ClientID, i+1, resp.Code)
				time.Sleep(baseDelay * time.Duration(1<<i))
				resp = next(ctx, req)
			}
			return resp
		}
	}
}
