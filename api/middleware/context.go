package middleware

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
)

type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxTenantID  contextKey = "tenant_id"
	ctxRequestID contextKey = "request_id"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func TenantIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxTenantID).(string); ok {
		return v
	}
	return ""
}

// Actor returns the parsed caller identity. Missing or malformed values come back as uuid.Nil.
func Actor(ctx context.Context) (userID, tenantID uuid.UUID) {
	userID, _ = uuid.Parse(UserIDFromContext(ctx))
	tenantID, _ = uuid.Parse(TenantIDFromContext(ctx))
	return userID, tenantID
}

// RequireActor is Actor for handlers that cannot proceed without a tenant.
func RequireActor(ctx context.Context) (userID, tenantID uuid.UUID, err error) {
	userID, tenantID = Actor(ctx)
	if tenantID == uuid.Nil {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant context missing")
	}
	return userID, tenantID, nil
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithTenantID injects the tenant identifier into the context for downstream handlers.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTenantID, tenantID)
}
