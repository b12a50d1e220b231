// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"marketplace/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to open an account.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	UserType        entity.UserType
	BusinessName    string
	BusinessAddress string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// AuthOutput is a freshly issued session token and the account it belongs to.
type AuthOutput struct {
	Token string
	User  *entity.User
}

// AuthUsecase covers registration, login and request authentication.
type AuthUsecase interface {
	// CheckEmail reports whether an account already uses the address.
	CheckEmail(ctx context.Context, email string) (bool, error)

	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login fails with the same error whether the email is unknown or the password is wrong.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// Authenticate verifies a bearer token and resolves the caller.
	Authenticate(ctx context.Context, token string) (*entity.Identity, error)
}
