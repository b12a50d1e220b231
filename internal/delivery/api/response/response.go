package response

import (
	"net/http"

	deliverycontext "marketplace/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// ErrorResponse defines the structure for error responses
type ErrorResponse struct {
	Status    string `json:"status"`
	Code      string `json:"code"`              // Machine-readable error code, e.g., "VALIDATION_FAILED"
	Message   string `json:"message"`           // User-friendly error message
	Details   string `json:"details,omitempty"` // Additional error context
	RequestID string `json:"requestId"`
}

// Success writes {status:"success", ...fields}.
func Success(c echo.Context, statusCode int, fields echo.Map) error {
	body := echo.Map{"status": statusSuccess}
	for k, v := range fields {
		body[k] = v
	}

	return c.JSON(statusCode, body)
}

// OK is Success with 200.
func OK(c echo.Context, fields echo.Map) error {
	return Success(c, http.StatusOK, fields)
}

// Created is Success with 201.
func Created(c echo.Context, fields echo.Map) error {
	return Success(c, http.StatusCreated, fields)
}

// Error writes the error envelope. The caller decides whether details may be exposed.
func Error(c echo.Context, statusCode int, errorCode, message, details string) error {
	return c.JSON(statusCode, ErrorResponse{
		Status:    statusError,
		Code:      errorCode,
		Message:   message,
		Details:   details,
		RequestID: deliverycontext.GetRequestID(c),
	})
}
