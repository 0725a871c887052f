package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/molstud/moltrain/pkg/api/types/errors"
	"github.com/molstud/moltrain/pkg/api/types/studio"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

// GetScoreboardHandler lists the fittings competing on one dataset,
// filtered to those trained for exactly the requested labels.
func GetScoreboardHandler(scoreboard storage.ScoreboardInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		datasetId := c.QueryParam("datasetId")
		if datasetId == "" {
			return apierr.BadRequest("datasetId query parameter is required", nil)
		}
		labels := c.QueryParams()["label"]

		entries, err := scoreboard.Filtered(ctx, datasetId, labels)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, studio.ComposeScoreboard(entries))
	}
}

// DeleteScoreboardFittingHandler removes one fitting from the scoreboard.
func DeleteScoreboardFittingHandler(scoreboard storage.ScoreboardInterface, fittingIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if err := scoreboard.Delete(ctx, c.Param(fittingIdParam)); err != nil {
			return apierr.InternalServerError(err)
		}
		return c.NoContent(http.StatusOK)
	}
}

// DeleteScoreboardHandler clears the scoreboard.
func DeleteScoreboardHandler(scoreboard storage.ScoreboardInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if err := scoreboard.DeleteAll(ctx); err != nil {
			return apierr.InternalServerError(err)
		}
		return c.NoContent(http.StatusOK)
	}
}
