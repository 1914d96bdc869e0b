// Package handler defines the HTTP handlers.  Handlers depend on small
// interfaces so tests can swap the MySQL repositories for fakes.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/realestate-listing/internal/service"
)

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// parseFloatQuery returns nil when the query parameter is absent.
func parseFloatQuery(c echo.Context, name string) (*float64, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, false
	}
	return &v, true
}

// ownershipStatus maps a CheckOwnership error onto a response.  It returns
// false when err is nil.
func ownershipStatus(c echo.Context, log zerolog.Logger, err error) (bool, error) {
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, service.ErrNotFound):
		return true, c.JSON(http.StatusNotFound, echo.Map{"error": "home not found"})
	case errors.Is(err, service.ErrForbidden):
		return true, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("ownership lookup failed")
	return true, c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
