package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/molstud/moltrain/pkg/api/types/errors"
	"github.com/molstud/moltrain/pkg/api/types/studio"
	kerr "github.com/molstud/moltrain/pkg/domain/errors"
	"github.com/molstud/moltrain/pkg/domain/storage"
	"github.com/molstud/moltrain/pkg/utils/slices"
)

// GetModelsHandler lists the user's model configurations.
func GetModelsHandler(models storage.ModelInterface, userIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userId := c.Param(userIdParam)
		if err := requireSelf(c, userId); err != nil {
			return err
		}

		found, err := models.GetAll(ctx, userId)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, slices.Map(found, studio.ComposeModel))
	}
}

// AddModelHandler stores a model configuration derived from a base model.
//
// 404 when the base model does not exist.
func AddModelHandler(models storage.ModelInterface, userIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userId := c.Param(userIdParam)
		if err := requireSelf(c, userId); err != nil {
			return err
		}

		req := studio.ModelNew{}
		if err := c.Bind(&req); err != nil {
			return apierr.BadRequest("send a JSON body with name, baseModelId and parameters", err)
		}
		if req.Name == "" || req.BaseModelId == "" {
			return apierr.BadRequest("name and baseModelId are required", nil)
		}

		modelId, err := models.New(ctx, userId, req.Name, req.Parameters, req.BaseModelId)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusCreated, studio.ModelCreated{ModelId: modelId})
	}
}
