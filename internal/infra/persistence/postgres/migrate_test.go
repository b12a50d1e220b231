package postgres

import (
	"context"
	"database/sql"
	"io/fs"
	"strings"
	"testing"

	"marketplace/internal/errors"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_AreGooseFiles(t *testing.T) {
	entries, err := fs.ReadDir(embedMigrations, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		raw, err := fs.ReadFile(embedMigrations, "migrations/"+entry.Name())
		require.NoError(t, err)

		content := string(raw)
		assert.True(t, strings.HasPrefix(content, "-- +goose Up"), entry.Name())
		assert.Contains(t, content, "-- +goose Down", entry.Name())
	}
}

func TestMigrate_RunsEmbeddedDirectory(t *testing.T) {
	original := gooseUpContext
	t.Cleanup(func() { gooseUpContext = original })

	var gotDir string
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir

		return nil
	}

	require.NoError(t, Migrate(context.Background(), nil))
	assert.Equal(t, "migrations", gotDir)
}

func TestMigrate_WrapsFailure(t *testing.T) {
	original := gooseUpContext
	t.Cleanup(func() { gooseUpContext = original })

	boom := errors.New("boom")
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return boom
	}

	err := Migrate(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
}
