// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when the storage unique index on email rejects a write.
	ErrDuplicateEmail = errors.New("duplicate email")
)

// UserRepository defines the standard operations for user persistence.
// Emails passed in are expected to be normalized with entity.NormalizeEmail.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID, including the password hash.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address, including the password hash.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// ExistsByEmail reports whether an account uses the email address.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create persists a new user and stamps CreatedAt and UpdatedAt.
	Create(ctx context.Context, user *entity.User) error

	// Update persists every mutable field and stamps UpdatedAt.
	Update(ctx context.Context, user *entity.User) error
}
