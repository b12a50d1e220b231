package usecase

import (
	"context"

	"marketplace/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateProfileInput holds the profile fields to change. Nil fields are left untouched.
type UpdateProfileInput struct {
	Name            *string
	Email           *string
	BusinessName    *string
	BusinessAddress *string
}

// ChangePasswordInput holds the current password and its replacement.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// ProfileUsecase manages the caller's own account.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)

	// ChangePassword invalidates every earlier token and returns a fresh one.
	ChangePassword(ctx context.Context, userID uuid.UUID, input *ChangePasswordInput) (*AuthOutput, error)
}
