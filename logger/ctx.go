package logger

import "context"

type ctxKey struct{}

var requestIDKey = ctxKey{}

// WithRequestID stores a request id in the context. The request-id middleware
// sets it; anything logging against that request's context can pick it up.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom retrieves the request id from the context, or "" when unset.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
