// Package user contains the account model. Authentication itself is an
// external identity concern; this package only stores what the API needs
// to resolve a bearer token to an owner.
package user

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// User is an account that owns semesters, courses, and grade rows.
type User struct {
	ID          string
	Email       string
	DisplayName string

	// SecretHash is the bcrypt hash of the API secret carried in the
	// bearer token. The plaintext secret is never stored.
	SecretHash string

	CreatedAt time.Time
}

// New creates a user, hashing the given API secret.
func New(id, email, displayName, secret string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.NewDomainError("user", "Create", shared.ErrEmptyValue, "email is required")
	}
	if secret == "" {
		return nil, shared.NewDomainError("user", "Create", shared.ErrEmptyValue, "secret is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.WrapError("user", "Create", shared.ErrInvalidInput, "failed to hash secret", err)
	}

	return &User{
		ID:          id,
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		SecretHash:  string(hash),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// VerifySecret compares a presented secret against the stored hash.
func (u *User) VerifySecret(secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.SecretHash), []byte(secret)) == nil
}
