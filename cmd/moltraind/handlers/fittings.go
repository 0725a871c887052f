package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/molstud/moltrain/pkg/api/types/errors"
	"github.com/molstud/moltrain/pkg/api/types/studio"
	"github.com/molstud/moltrain/pkg/domain/storage"
	"github.com/molstud/moltrain/pkg/utils/slices"
)

// GetFittingsHandler lists the user's trained fittings.
func GetFittingsHandler(fittings storage.FittingInterface, userIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userId := c.Param(userIdParam)
		if err := requireSelf(c, userId); err != nil {
			return err
		}

		found, err := fittings.GetAll(ctx, userId)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, slices.Map(found, studio.ComposeFitting))
	}
}
