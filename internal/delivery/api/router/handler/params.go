package handler

import (
	"strings"

	deliverycontext "marketplace/internal/delivery/context"
	"marketplace/internal/domain/entity"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// bindAndValidate binds the request body, lets normalize clean it up, then runs the struct validator.
func bindAndValidate[T any](c echo.Context, req *T, normalize func(*T)) error {
	if err := c.Bind(req); err != nil {
		return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails("Invalid request body"))
	}
	if normalize != nil {
		normalize(req)
	}

	return errors.WithStack(c.Validate(req))
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.WithStack(domainerrors.ErrInvalidID)
	}

	return id, nil
}

// requireIdentity returns the caller set by the auth middleware.
func requireIdentity(c echo.Context) (*entity.Identity, error) {
	identity := deliverycontext.GetIdentity(c)
	if identity == nil {
		return nil, errors.WithStack(domainerrors.ErrNoToken)
	}

	return identity, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)

	return &trimmed
}
