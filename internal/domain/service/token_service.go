package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired is returned for a correctly signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid is returned for any other verification failure.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims are the verified contents of a session token.
type Claims struct {
	UserID   uuid.UUID
	IssuedAt time.Time
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	// Issue signs a token for the user that expires after ExpiresIn.
	Issue(userID uuid.UUID) (string, error)

	// Verify checks signature, algorithm and expiry, and returns ErrTokenExpired or ErrTokenInvalid on failure.
	Verify(token string) (*Claims, error)

	// ExpiresIn returns the configured token lifetime.
	ExpiresIn() time.Duration
}
