package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eschool/eschool-api/internal/api/metrics"
	"github.com/eschool/eschool-api/internal/core/domain"
	"github.com/eschool/eschool-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	UserIDKey = "userId"
	RoleKey   = "role"
)

// Auth verifies the bearer token and injects userId and role into the echo
// context. A missing header yields domain.ErrMissingToken; anything that does
// not verify yields domain.ErrInvalidToken.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if authHeader == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return domain.ErrMissingToken
			}

			scheme, token, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return domain.ErrInvalidToken
			}

			claims, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, domain.ErrMissingToken) {
					reason = "missing_token"
				}
				metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
				return err
			}

			c.Set(UserIDKey, claims.UserID)
			c.Set(RoleKey, claims.Role)

			return next(c)
		}
	}
}
