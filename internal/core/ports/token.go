package ports

import "time"

// Claims is the verified identity carried by a session token.
type Claims struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// TokenIssuer signs stateless, time-bounded session tokens.
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

// TokenVerifier validates a token's signature and expiry. It fails with
// domain.ErrMissingToken for an empty token and domain.ErrInvalidToken for
// anything else that does not verify.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// PasswordHasher produces and checks salted one-way password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}
