package middleware

import (
	"net/http"

	"github.com/anik-barua/devlink/backend/internal/auth"
	"github.com/anik-barua/devlink/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware validates the session token and attaches the decoded
// identity to the request context. The client sends the raw token as the
// Authorization header value, without a "Bearer " prefix.
func AuthMiddleware(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := c.Request().Header.Get("Authorization")
			if tokenString == "" {
				return c.JSON(http.StatusUnauthorized, models.NewErrorsResponse("No token, authorization denied"))
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.NewErrorsResponse("Token is not valid"))
			}

			// Store user claims in context
			c.Set("user", claims)

			return next(c)
		}
	}
}
