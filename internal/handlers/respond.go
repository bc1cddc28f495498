package handlers

import (
	"net/http"

	"github.com/anik-barua/devlink/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func errorJSON(c echo.Context, status int, msgs ...string) error {
	return c.JSON(status, models.NewErrorsResponse(msgs...))
}

// serverError logs the underlying failure and responds with a generic
// message, never internal detail.
func serverError(c echo.Context, err error) error {
	log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("request failed")
	return errorJSON(c, http.StatusInternalServerError, "Server Error")
}

// currentUser returns the identity the auth middleware attached
func currentUser(c echo.Context) *models.JwtCustomClaims {
	return c.Get("user").(*models.JwtCustomClaims)
}
