// Package context carries the request id from the HTTP layer into services
// without handing them the fiber ctx, which fasthttp recycles after the
// handler returns.
package context

import (
	"context"
)

type requestIDKey struct{}

const unknownRequestID = "unknown"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = unknownRequestID
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return unknownRequestID
	}
	requestID, ok := ctx.Value(requestIDKey{}).(string)
	if !ok || requestID == "" {
		return unknownRequestID
	}
	return requestID
}
