package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"marketplace/config"
	"marketplace/internal/delivery/api/response"
	deliverycontext "marketplace/internal/delivery/context"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger     *slog.Logger
	production bool
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger, cfg *config.Config) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger:     logger,
		production: cfg.IsProduction(),
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPCode()
		if status >= http.StatusInternalServerError {
			m.logUnhandled(c, err)
		}
		_ = response.Error(c, status, appErr.ErrorCode(), appErr.Message(), m.exposableDetails(status, appErr.Details()))

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
		if httpErr.Code >= http.StatusInternalServerError {
			m.logUnhandled(c, err)
		}

		_ = response.Error(c, httpErr.Code, httpErrorCode(httpErr.Code), message, "")

		return
	}

	m.logUnhandled(c, err)

	details := ""
	if !m.production {
		details = err.Error()
	}
	_ = response.Error(c, http.StatusInternalServerError, domainerrors.CodeInternalError, "Internal server error", details)
}

// exposableDetails drops details for auth failures, and for 5xx in production.
func (m *ErrorMiddleware) exposableDetails(status int, details string) string {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ""
	case status >= http.StatusInternalServerError && m.production:
		return ""
	default:
		return details
	}
}

func (m *ErrorMiddleware) logUnhandled(c echo.Context, err error) {
	attrs := []any{
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	}
	if m.production {
		attrs = append(attrs, slog.String("error", err.Error()))
	} else {
		attrs = append(attrs, slog.String("error", fmt.Sprintf("%+v", err)))
	}

	deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Error("Unhandled error", attrs...)
}

func httpErrorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domainerrors.CodeValidationFailed
	case http.StatusUnauthorized:
		return domainerrors.CodeUnauthorized
	case http.StatusForbidden:
		return domainerrors.CodeForbidden
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		if status >= http.StatusInternalServerError {
			return domainerrors.CodeInternalError
		}

		return "HTTP_ERROR"
	}
}
