package middleware

import (
	"context"
	"log"
	"time"

	"zrpc/dispatch"
	"zrpc/errcode"
)

// LoggingMiddleware logs each dispatched request's client, duration,
// and resulting error code.
func LoggingMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req dispatch.Request) *dispatch.Response {
			start := time.Now()
			resp := next(ctx, req)
			duration := time.Since(start)
			log.Printf("client=%s duration=%s code=%s", req.ClientID, duration, resp.Code)
			if resp.Code != errcode.NoError {
				log.Printf("client=%s error=%s", req.ClientID, resp.Code)
			}
			return resp
		}
	}
}
