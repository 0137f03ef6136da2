package ports

import (
	"context"

	"github.com/eschool/eschool-api/internal/core/domain"
)

// SignupInput carries the signup form. SecretKey is only consulted for
// privileged roles.
type SignupInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	SecretKey string
}

// SignupResult is returned after a successful signup.
type SignupResult struct {
	Role  string
	Token string
	User  domain.PublicUser
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Token string
	User  domain.PublicUser
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*SignupResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
