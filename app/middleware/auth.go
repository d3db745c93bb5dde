package middleware

import (
	"net/http"
	"strings"

	"github.com/mzdehbashi-github/ableton-challenge/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type tokenValidator interface {
	Validate(tokenString string) (*service.Claims, error)
}

type AuthMiddleware struct {
	tokens tokenValidator
}

func NewAuthMiddleware(tokens tokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			logrus.Debug("Missing authorization header")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "missing authorization header",
			})
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logrus.Debug("Invalid authorization header format")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid authorization header format",
			})
		}

		claims, err := m.tokens.Validate(parts[1])
		if err != nil {
			logrus.Debug("Invalid or expired session token")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "invalid or expired token",
			})
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)

		return next(c)
	}
}
