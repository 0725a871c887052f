package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/molstud/moltrain/pkg/api/types/errors"
	"github.com/molstud/moltrain/pkg/api/types/studio"
	"github.com/molstud/moltrain/pkg/domain/storage"
	"github.com/molstud/moltrain/pkg/utils/slices"
)

// GetBaseModelsHandler lists the predefined model architectures.
func GetBaseModelsHandler(baseModels storage.BaseModelInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		found, err := baseModels.GetAll(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, slices.Map(found, studio.ComposeBaseModel))
	}
}
