// Package handlers implements the REST surface of moltraind.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/molstud/moltrain/pkg/api/auth"
	apierr "github.com/molstud/moltrain/pkg/api/types/errors"
)

// requireSelf guards user-scoped routes: the :userId of the path must be
// the authenticated user.
func requireSelf(c echo.Context, userId string) error {
	if auth.UserId(c) != userId {
		return apierr.NewErrorMessage(
			http.StatusForbidden,
			"forbidden",
			apierr.WithAdvice("this resource belongs to another user"),
		)
	}
	return nil
}
