// Package requestctx carries per-request values shared by middleware and handlers.
package requestctx

import (
	"context"

	"hrperf/internal/domain/auth"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	identityKey  ctxKey = "identity"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity returns the authenticated caller, if the gate attached one.
func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	return identity, ok
}
