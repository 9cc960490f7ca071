// Package requestctx carries request-scoped identity through contexts.
package requestctx

import (
	"context"
	"strings"
)

type principalContextKey struct{}

type requestIDContextKey struct{}

// Principal is the signed-in visitor behind a request.
type Principal struct {
	UserID      string
	DisplayName string
}

// SignedIn reports whether the principal carries a user identity.
func (p Principal) SignedIn() bool {
	return strings.TrimSpace(p.UserID) != ""
}

// WithPrincipal stores the signed-in principal in context.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext returns the principal stored in context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	principal, ok := ctx.Value(principalContextKey{}).(Principal)
	if !ok || !principal.SignedIn() {
		return Principal{}, false
	}
	return principal, true
}

// WithUserID stores a user identifier in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return WithPrincipal(ctx, Principal{UserID: userID})
}

// UserIDFromContext returns the user identifier stored in context.
func UserIDFromContext(ctx context.Context) string {
	principal, _ := PrincipalFromContext(ctx)
	return principal.UserID
}

// WithRequestID stores the correlation id for the current request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey{}, strings.TrimSpace(requestID))
}

// RequestIDFromContext returns the correlation id stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey{}).(string)
	return value
}
