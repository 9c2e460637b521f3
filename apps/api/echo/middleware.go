package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

var errForbidden = echo.NewHTTPError(http.StatusForbidden, "Permission denied")

// adminMiddleware only lets admin users through.
func adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return err
		}
		if !claims.IsAdmin {
			return errForbidden
		}
		return next(ctx)
	}
}

// staffMiddleware lets admin and teacher users through.
func staffMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := getContextClaims(ctx)
		if err != nil {
			return err
		}
		if !(claims.IsAdmin || claims.IsTeacher) {
			return errForbidden
		}
		return next(ctx)
	}
}
