package domain

import "time"

// AuthEventType names an entry in the auth audit trail.
type AuthEventType string

const (
	EventSignup         AuthEventType = "signup"
	EventLoginSucceeded AuthEventType = "login_succeeded"
	EventLoginFailed    AuthEventType = "login_failed"
	EventEnrolled       AuthEventType = "enrolled"
)

// AuthEvent is a single audit record. UserID is empty for failed logins
// against unknown emails.
type AuthEvent struct {
	Type     AuthEventType
	UserID   string
	Email    string
	Role     string
	CourseID string
	At       time.Time
}
