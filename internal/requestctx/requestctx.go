// Package requestctx carries the correlation ID assigned to each HTTP
// request. The middleware stores it, the logger and response envelope read it
// back, and audit events persist it alongside workflow actions.
package requestctx

import "context"

type ctxKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(ctxKey{}).(string); ok {
		return value
	}
	return ""
}
