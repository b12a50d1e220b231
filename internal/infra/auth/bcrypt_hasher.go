// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"unicode"

	"marketplace/config"
	domainerrors "marketplace/internal/domain/errors"
	"marketplace/internal/domain/service"
	"marketplace/internal/errors"

	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// bcrypt ignores everything past this many bytes.
const bcryptMaxPasswordBytes = 72

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
// Hash and Check share a weighted semaphore so a burst of logins cannot occupy every CPU.
type bcryptHasher struct {
	cost     int
	sem      *semaphore.Weighted
	strength config.PasswordStrengthConfig

	dummyOnce sync.Once
	dummy     []byte
}

// BcryptHasherParams holds dependencies for the hasher, injected by Fx.
type BcryptHasherParams struct {
	fx.In

	Config *config.Config
}

// NewBcryptHasher builds the hasher from the bcrypt and passwordStrength config sections.
func NewBcryptHasher(params BcryptHasherParams) service.PasswordHasher {
	var strength config.PasswordStrengthConfig
	if params.Config.PasswordStrength != nil {
		strength = *params.Config.PasswordStrength
	}

	return NewBcryptHasherWithCost(params.Config.Bcrypt.SaltRounds, params.Config.Bcrypt.MaxConcurrency, strength)
}

// NewBcryptHasherWithCost creates a hasher with an explicit cost. maxConcurrency <= 0 means GOMAXPROCS.
func NewBcryptHasherWithCost(cost, maxConcurrency int, strength config.PasswordStrengthConfig) *bcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if maxConcurrency <= 0 {
		maxConcurrency = runtime.GOMAXPROCS(0)
	}

	return &bcryptHasher{
		cost:     cost,
		sem:      semaphore.NewWeighted(int64(maxConcurrency)),
		strength: strength,
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
func (h *bcryptHasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "waiting for hashing slot")
	}
	defer h.sem.Release(1)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt generate")
	}

	return string(hash), nil
}

// Check compares a plaintext password with a bcrypt hash in constant time.
// A malformed hash or a cancelled context is reported as a mismatch. An empty or
// malformed hash is still compared against a throwaway hash of the same cost, so
// callers can check a password for an unknown account without a timing tell.
func (h *bcryptHasher) Check(ctx context.Context, password, hash string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		_ = bcrypt.CompareHashAndPassword(h.dummyHash(), []byte(password))

		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is generated on first use at the configured cost.
func (h *bcryptHasher) dummyHash() []byte {
	h.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("unused-account-placeholder"), h.cost)
		if err == nil {
			h.dummy = hash
		}
	})

	return h.dummy
}

// ValidatePasswordStrength checks the password against the configured policy.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < h.strength.MinLength {
		return domainerrors.NewValidationError(
			fmt.Sprintf("Password must be at least %d characters long", h.strength.MinLength))
	}

	maxLength := bcryptMaxPasswordBytes
	if h.strength.MaxLength > 0 && h.strength.MaxLength < maxLength {
		maxLength = h.strength.MaxLength
	}
	if len(password) > maxLength {
		return domainerrors.NewValidationError(
			fmt.Sprintf("Password cannot be longer than %d characters", maxLength))
	}

	if h.strength.RequireUppercase && !h.hasUppercase(password) {
		return domainerrors.NewValidationError("Password must contain at least one uppercase letter")
	}
	if h.strength.RequireLowercase && !h.hasLowercase(password) {
		return domainerrors.NewValidationError("Password must contain at least one lowercase letter")
	}
	if h.strength.RequireNumbers && !h.hasNumbers(password) {
		return domainerrors.NewValidationError("Password must contain at least one number")
	}
	if h.strength.RequireSpecial && !h.hasSpecialChars(password) {
		return domainerrors.NewValidationError("Password must contain at least one special character")
	}

	return nil
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	return containsRune(s, unicode.IsUpper)
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	return containsRune(s, unicode.IsLower)
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	return containsRune(s, unicode.IsDigit)
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	return containsRune(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func containsRune(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if pred(r) {
			return true
		}
	}

	return false
}
