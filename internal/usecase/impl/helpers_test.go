package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() time.Time {
	return fixedNow
}

func requireAppError(t *testing.T, err error, httpCode int, code string) domainerrors.AppError {
	t.Helper()

	require.Error(t, err)
	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr), "expected an AppError, got %v", err)
	assert.Equal(t, httpCode, appErr.HTTPCode())
	assert.Equal(t, code, appErr.ErrorCode())

	return appErr
}
