package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthMiddleware validates the shared admin API token. The fund runs as a
// single-admin deployment, so there is one static bearer token from config
// rather than a user store.
type AuthMiddleware struct {
	apiToken string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(apiToken string) *AuthMiddleware {
	return &AuthMiddleware{apiToken: apiToken}
}

// Authenticate returns an Echo middleware that validates the bearer token
func (m *AuthMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorizedError(c, "Missing authorization header")
			}

			// Check Bearer prefix
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return unauthorizedError(c, "Invalid authorization header format")
			}

			if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.apiToken)) != 1 {
				log.Debug().Str("path", c.Request().URL.Path).Msg("Rejected request with invalid API token")
				return unauthorizedError(c, "Invalid API token")
			}

			return next(c)
		}
	}
}
