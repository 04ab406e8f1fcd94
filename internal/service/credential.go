package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"expoevents-backend/internal/apperror"
)

// CredentialIssuer generates and verifies account passwords. Generated
// plaintext is returned to the caller exactly once and never stored.
type CredentialIssuer struct{}

// DefaultPassword derives the initial password from the account's email
// local part ("jane" in jane@acme.test becomes "jane@123"). When the email
// is empty the fallback name is used instead.
func (CredentialIssuer) DefaultPassword(email, fallback string) string {
	base := fallback
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}
	if base == "" {
		base = "user"
	}
	return base + "@123"
}

// Hash bcrypt-hashes a plaintext password.
func (CredentialIssuer) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.Wrap(apperror.CodeSystem, "failed to hash password", err)
	}
	return string(hash), nil
}

// Verify reports whether the plaintext matches the stored hash.
func (CredentialIssuer) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
