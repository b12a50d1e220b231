package middleware

import (
	"strings"

	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/errors"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const bearerPrefix = "Bearer "

// AuthMiddleware resolves the bearer token into the caller identity.
type AuthMiddleware struct {
	authUC usecase.AuthUsecase
}

// AuthMiddlewareParams holds dependencies for AuthMiddleware.
type AuthMiddlewareParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{authUC: params.AuthUC}
}

// Authenticate rejects requests without a valid "Authorization: Bearer <token>" header
// and attaches the identity to the request.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), bearerPrefix)
		if !ok || token == "" {
			return errors.WithStack(domainerrors.ErrNoToken)
		}

		identity, err := m.authUC.Authenticate(c.Request().Context(), token)
		if err != nil {
			return errors.WithStack(err)
		}

		deliverycontext.SetIdentity(c, identity)

		return next(c)
	}
}

// RequireRole allows the request only when the authenticated identity holds one of roles.
// It must run after Authenticate.
func RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !entity.Authorize(deliverycontext.GetIdentity(c), roles...) {
				return errors.WithStack(domainerrors.ErrForbidden)
			}

			return next(c)
		}
	}
}
