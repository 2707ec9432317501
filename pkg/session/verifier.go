package session

import (
	"context"
	"errors"
	"strings"

	"adminboard/pkg/auth"
	"adminboard/pkg/domain"
)

// ErrInvalidCredentials is returned by a Verifier when email and password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier decides whether a credential pair identifies a user.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (domain.User, error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, email, password string) (domain.User, error)

func (f VerifierFunc) Verify(ctx context.Context, email, password string) (domain.User, error) {
	return f(ctx, email, password)
}

// AcceptAny accepts every non-empty email and returns the demo admin profile
// bound to that email. The password is not checked.
type AcceptAny struct{}

func (AcceptAny) Verify(_ context.Context, email, _ string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	return domain.User{
		ID:     1,
		Name:   "John Doe",
		Email:  email,
		Role:   domain.RoleAdmin,
		Avatar: domain.AvatarURL("John Doe"),
	}, nil
}

// UserLookup finds a known user by email.
type UserLookup interface {
	FindByEmail(email string) (domain.User, bool)
}

// Directory matches the email against known users and the password against
// one shared bcrypt hash.
type Directory struct {
	users UserLookup
	hash  string
}

// NewDirectory hashes sharedPassword once for later comparisons.
func NewDirectory(users UserLookup, sharedPassword string) (*Directory, error) {
	if users == nil {
		return nil, errors.New("user lookup is required")
	}
	hash, err := auth.HashPassword(sharedPassword)
	if err != nil {
		return nil, err
	}
	return &Directory{users: users, hash: hash}, nil
}

func (d *Directory) Verify(_ context.Context, email, password string) (domain.User, error) {
	user, ok := d.users.FindByEmail(strings.TrimSpace(email))
	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, d.hash) {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}
