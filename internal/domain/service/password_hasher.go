// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "context"

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted, self-describing hash from a plaintext password.
	// It blocks while the CPU budget for hashing is exhausted and honours ctx cancellation.
	Hash(ctx context.Context, password string) (string, error)

	// Check compares a plaintext password with a hash. An empty or malformed hash is a
	// mismatch that still costs a full comparison.
	Check(ctx context.Context, password, hash string) bool

	// ValidatePasswordStrength checks the configured password policy.
	ValidatePasswordStrength(password string) error
}
