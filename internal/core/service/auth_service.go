package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eschool/eschool-api/internal/core/domain"
	"github.com/eschool/eschool-api/internal/core/ports"
)

// AuthConfig holds the role secrets and signup policy. It is built once at
// startup and never mutated.
type AuthConfig struct {
	// InstructorKey and AdminKey gate self-service signup for the privileged
	// roles. An empty key disables signup for that role.
	InstructorKey string
	AdminKey      string
	// RejectUnknownRoles turns an unrecognised role string into a validation
	// failure instead of coercing it to student.
	RejectUnknownRoles bool
}

// AuthService implements signup and login.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	cfg      AuthConfig
	throttle ports.LoginThrottle
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithLoginThrottle enables failed-login lockout.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithAuditRecorder sends auth events to r.
func WithAuditRecorder(r ports.AuditRecorder) AuthOption {
	return func(s *AuthService) { s.audit = r }
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	cfg AuthConfig,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		cfg:      cfg,
		throttle: noopThrottle{},
		audit:    noopAudit{},
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup creates a user and returns a token for the stored role.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.SignupResult, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	// Conflict and the role gate are reported before any field check, so a
	// taken email or a bad secret fails the same way whatever else is sent.
	if email != "" {
		_, err := s.users.FindByEmail(ctx, email)
		switch {
		case err == nil:
			return nil, domain.ErrUserExists
		case !errors.Is(err, domain.ErrUserNotFound):
			return nil, fmt.Errorf("signup: lookup user: %w", err)
		}
	}

	role, err := s.resolveRole(in.Role, in.SecretKey)
	if err != nil {
		s.log.Warn().Str("email", email).Str("role", in.Role).Err(err).Msg("signup rejected")
		return nil, err
	}

	if err := validateSignup(signupFields{Name: name, Email: email, Password: in.Password}); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:            name,
		Email:           email,
		PasswordHash:    hash,
		Role:            role,
		EnrolledCourses: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: create user: %w", err)
	}

	token, err := s.tokens.Issue(created.ID, created.Role)
	if err != nil {
		return nil, fmt.Errorf("signup: issue token: %w", err)
	}

	s.audit.Record(domain.AuthEvent{
		Type:   domain.EventSignup,
		UserID: created.ID,
		Email:  created.Email,
		Role:   created.Role,
		At:     now,
	})
	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user signed up")

	return &ports.SignupResult{Role: created.Role, Token: token, User: created.Public()}, nil
}

// resolveRole applies the role-secret gate and the fallback policy.
func (s *AuthService) resolveRole(role, secretKey string) (string, error) {
	switch role {
	case domain.RoleInstructor:
		if !secretMatches(secretKey, s.cfg.InstructorKey) {
			return "", domain.ErrInvalidInstructorKey
		}
		return role, nil
	case domain.RoleAdmin:
		if !secretMatches(secretKey, s.cfg.AdminKey) {
			return "", domain.ErrInvalidAdminKey
		}
		return role, nil
	case domain.RoleStudent, "":
		return domain.RoleStudent, nil
	}

	if s.cfg.RejectUnknownRoles {
		return "", domain.NewValidationError(fmt.Sprintf("role must be one of: %s %s %s",
			domain.RoleStudent, domain.RoleInstructor, domain.RoleAdmin))
	}
	return domain.RoleStudent, nil
}

func secretMatches(given, expected string) bool {
	if expected == "" || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}

// Login verifies credentials and returns a token for the stored role. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	allowed, err := s.throttle.Allowed(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("login throttle check failed, allowing attempt")
	} else if !allowed {
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.loginFailed(ctx, email, "")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.loginFailed(ctx, email, user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to reset login throttle")
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.audit.Record(domain.AuthEvent{
		Type:   domain.EventLoginSucceeded,
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		At:     time.Now().UTC(),
	})
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user logged in")

	return &ports.LoginResult{Token: token, User: user.Public()}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email, userID string) {
	if err := s.throttle.Fail(ctx, email); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to record login failure")
	}
	s.audit.Record(domain.AuthEvent{
		Type:   domain.EventLoginFailed,
		UserID: userID,
		Email:  email,
		At:     time.Now().UTC(),
	})
	s.log.Info().Str("email", email).Msg("login failed")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type noopThrottle struct{}

func (noopThrottle) Allowed(context.Context, string) (bool, error) { return true, nil }
func (noopThrottle) Fail(context.Context, string) error            { return nil }
func (noopThrottle) Reset(context.Context, string) error           { return nil }

type noopAudit struct{}

func (noopAudit) Record(domain.AuthEvent) {}
