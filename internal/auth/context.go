// context.go - Request-context plumbing for the inbound bearer token.

package auth

import (
	"context"
)

type contextKey int

const inboundTokenKey contextKey = iota

// WithInboundToken returns a context carrying the request's inbound token.
func WithInboundToken(ctx context.Context, token InboundToken) context.Context {
	return context.WithValue(ctx, inboundTokenKey, token)
}

// InboundTokenFromContext returns the inbound token stored by the bearer
// middleware, if any.
func InboundTokenFromContext(ctx context.Context) (InboundToken, bool) {
	token, ok := ctx.Value(inboundTokenKey).(InboundToken)
	return token, ok
}
