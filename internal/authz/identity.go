package authz

import (
	"context"

	"nutripae-rh/pkg/contextkeys"
	apperrors "nutripae-rh/pkg/errors"
)

// Identity is what the auth service tells us about the caller. It lives only for one request.
type Identity struct {
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email"`
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextkeys.IdentityKey, identity)
}

func IdentityFromContext(ctx context.Context) (*Identity, error) {
	identity, ok := ctx.Value(contextkeys.IdentityKey).(*Identity)
	if !ok || identity == nil {
		return nil, apperrors.ErrIdentityNotFound
	}
	return identity, nil
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

func requestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextkeys.RequestIDKey).(string)
	return id, ok && id != ""
}
