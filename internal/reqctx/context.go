package reqctx

import "context"

type ctxKey string

const keyRequestID ctxKey = "request_id"

// WithRequestID stores the request correlation id used in log lines.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, keyRequestID, rid)
}

// RequestID returns the correlation id if present.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(keyRequestID).(string)
	return v
}
