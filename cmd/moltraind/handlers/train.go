package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/molstud/moltrain/pkg/api/types/errors"
	"github.com/molstud/moltrain/pkg/api/types/studio"
	kerr "github.com/molstud/moltrain/pkg/domain/errors"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

// TrainingAdmitter is the part of the training supervisor the train
// handlers drive.
type TrainingAdmitter interface {
	Start(userId string, datasetId string, modelId string, labels []string, epochs int, batchSize int) error
	Continue(ctx context.Context, userId string, fittingId string, epochs int) (int, error)
	Stop(userId string) bool
}

// StartTrainingHandler admits a fresh training job.
//
// 202 when admitted, 503 while another training of the user runs,
// 404 when the model does not exist.
func StartTrainingHandler(
	trainings TrainingAdmitter,
	models storage.ModelInterface,
	userIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userId := c.Param(userIdParam)
		if err := requireSelf(c, userId); err != nil {
			return err
		}

		req := studio.TrainRequest{}
		if err := c.Bind(&req); err != nil {
			return apierr.BadRequest("send a JSON body describing the training", err)
		}
		if req.DatasetId == "" || req.ModelId == "" || len(req.Labels) == 0 {
			return apierr.BadRequest("datasetId, modelId and labels are required", nil)
		}
		if req.Epochs <= 0 || req.BatchSize <= 0 {
			return apierr.BadRequest("epochs and batchSize must be positive", nil)
		}

		if _, err := models.Get(ctx, userId, req.ModelId); errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		err := trainings.Start(userId, req.DatasetId, req.ModelId, req.Labels, req.Epochs, req.BatchSize)
		if errors.Is(err, kerr.ErrAlreadyRunning) {
			return apierr.ServiceUnavailable("a training is already running. stop it or wait", err)
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusAccepted, studio.TrainAccepted{Epochs: req.Epochs})
	}
}

// ContinueTrainingHandler resumes a finished fitting for more epochs.
//
// 202 with the new epoch total when admitted, 404 when the fitting does not
// exist, 503 while another training of the user runs.
func ContinueTrainingHandler(trainings TrainingAdmitter, userIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userId := c.Param(userIdParam)
		if err := requireSelf(c, userId); err != nil {
			return err
		}

		req := studio.TrainContinueRequest{}
		if err := c.Bind(&req); err != nil {
			return apierr.BadRequest("send a JSON body with fittingId and epochs", err)
		}
		if req.FittingId == "" || req.Epochs <= 0 {
			return apierr.BadRequest("fittingId and a positive epochs count are required", nil)
		}

		total, err := trainings.Continue(ctx, userId, req.FittingId, req.Epochs)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if errors.Is(err, kerr.ErrAlreadyRunning) {
			return apierr.ServiceUnavailable("a training is already running. stop it or wait", err)
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusAccepted, studio.TrainAccepted{Epochs: total})
	}
}

// StopTrainingHandler cancels the user's running training.
//
// 200 when a training was signalled, 404 when nothing is running.
func StopTrainingHandler(trainings TrainingAdmitter, userIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		userId := c.Param(userIdParam)
		if err := requireSelf(c, userId); err != nil {
			return err
		}

		if !trainings.Stop(userId) {
			return apierr.NotFound()
		}
		return c.NoContent(http.StatusOK)
	}
}
