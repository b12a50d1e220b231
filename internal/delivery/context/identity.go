package context

import (
	"context"

	"marketplace/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// KeyIdentity is the key for storing the authenticated caller.
const KeyIdentity ContextKey = "identity"

// SetIdentity attaches the caller to both echo.Context and the request context.Context,
// and tags the request-scoped logger with the user id.
func SetIdentity(c echo.Context, identity *entity.Identity) {
	c.Set(string(KeyIdentity), identity)

	ctx := WithIdentity(c.Request().Context(), identity)
	if logger := GetLogger(ctx); logger != nil {
		ctx = WithLogger(ctx, logger.With("user_id", identity.ID.String()))
	}
	c.SetRequest(c.Request().WithContext(ctx))
}

// GetIdentity extracts the caller from echo.Context. Nil on public routes.
func GetIdentity(c echo.Context) *entity.Identity {
	if identity, ok := c.Get(string(KeyIdentity)).(*entity.Identity); ok {
		return identity
	}

	return nil
}

// WithIdentity returns a new context with the caller.
func WithIdentity(ctx context.Context, identity *entity.Identity) context.Context {
	return context.WithValue(ctx, KeyIdentity, identity)
}

// IdentityFromContext extracts the caller from context.Context. Nil if absent.
func IdentityFromContext(ctx context.Context) *entity.Identity {
	if identity, ok := ctx.Value(KeyIdentity).(*entity.Identity); ok {
		return identity
	}

	return nil
}
