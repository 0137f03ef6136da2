package ports

import (
	"context"

	"github.com/eschool/eschool-api/internal/core/domain"
)

// AuditRecorder accepts auth events for asynchronous persistence. Record
// must not block the caller.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}

// AuditRepository persists auth events to the audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// LoginThrottle tracks failed logins per email.
type LoginThrottle interface {
	Allowed(ctx context.Context, email string) (bool, error)
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
