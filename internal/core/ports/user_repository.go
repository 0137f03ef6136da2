package ports

import (
	"context"

	"github.com/eschool/eschool-api/internal/core/domain"
)

// UserRepository is the credential store. Unique email and the atomic
// enroll-append are enforced by the store itself.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// AddEnrollment appends courseID to the user's enrolled set only if it is
	// absent. It returns domain.ErrAlreadyEnrolled when the course is already
	// present and domain.ErrUserNotFound when the user does not exist.
	AddEnrollment(ctx context.Context, userID, courseID string) error
}
