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

// GetDatasetsHandler lists the shared training datasets.
func GetDatasetsHandler(datasets storage.DatasetInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		found, err := datasets.GetAll(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, slices.Map(found, studio.ComposeDataset))
	}
}

// GetHistogramsHandler returns the value distribution of the requested
// labels of a dataset. Labels ride in repeated "label" query parameters.
//
// 404 when the dataset does not exist.
func GetHistogramsHandler(datasets storage.DatasetInterface, datasetIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		datasetId := c.Param(datasetIdParam)
		labels := c.QueryParams()["label"]

		found, err := datasets.Histograms(ctx, datasetId, labels)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, studio.ComposeHistograms(found))
	}
}
