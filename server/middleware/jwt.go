package middleware

import (
	"strings"

	"latency_optimizer/server/response"

	"github.com/labstack/echo/v4"
)

// ClaimsKey is the echo context key holding validated token claims
const ClaimsKey = "claims"

// ValidateTokenFunc is the function signature for token validation
type ValidateTokenFunc func(tokenString string) (claims interface{}, err error)

// JWTMiddleware rejects requests without a valid bearer token
func JWTMiddleware(validateFn ValidateTokenFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return response.Unauthorized(c, response.ErrCodeUnauthorized, "Authorization header required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return response.Unauthorized(c, response.ErrCodeUnauthorized, "Invalid authorization header format")
			}

			claims, err := validateFn(strings.TrimSpace(parts[1]))
			if err != nil {
				return response.Unauthorized(c, response.ErrCodeTokenInvalid, "Invalid or expired token: "+err.Error())
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}
