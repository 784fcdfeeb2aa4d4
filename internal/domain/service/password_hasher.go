// Package service declares the collaborators the usecases call out to: tokens,
// password hashing, Google sign-in, push, object storage, QR codes and event publishing.
package service

// PasswordHasher stores and verifies account passwords. Accounts created through
// Google sign-in have no hash until the user calls set-password.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Check reports whether password matches hash. An empty hash never matches.
	Check(password, hash string) bool
}
