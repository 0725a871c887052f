package handlers

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/molstud/moltrain/pkg/api/types/errors"
	"github.com/molstud/moltrain/pkg/api/types/studio"
	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/domain/chem"
	kerr "github.com/molstud/moltrain/pkg/domain/errors"
	"github.com/molstud/moltrain/pkg/domain/storage"
	"github.com/molstud/moltrain/pkg/utils/slices"
)

// GetMoleculesHandler lists the user's molecules with their analyses.
func GetMoleculesHandler(molecules storage.MoleculeInterface, userIdParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userId := c.Param(userIdParam)
		if err := requireSelf(c, userId); err != nil {
			return err
		}

		found, err := molecules.GetAll(ctx, userId)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, slices.Map(found, studio.ComposeMolecule))
	}
}

// PutMoleculeHandler stores a molecule in the user's workspace.
//
// 422 when the SMILES code is not well-formed.
func PutMoleculeHandler(
	molecules storage.MoleculeInterface,
	conv chem.Interface,
	userIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userId := c.Param(userIdParam)
		if err := requireSelf(c, userId); err != nil {
			return err
		}

		req := studio.MoleculeUpsert{}
		if err := c.Bind(&req); err != nil {
			return apierr.BadRequest("send a JSON body with smiles, name and cml", err)
		}
		if !conv.IsValidSMILES(req.SMILES) {
			return apierr.UnprocessableEntity(fmt.Sprintf("%q is not a SMILES code", req.SMILES))
		}

		err := molecules.Upsert(ctx, userId, domain.Molecule{
			SMILES: req.SMILES, Name: req.Name, CML: req.CML,
		})
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.NoContent(http.StatusCreated)
	}
}

// AnalyzeHandler predicts the fitting's labels for one of the user's
// molecules, stores the result on the molecule, and returns it.
//
// 404 when the fitting or the molecule is missing.
func AnalyzeHandler(
	molecules storage.MoleculeInterface,
	fittings storage.FittingInterface,
	userIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userId := c.Param(userIdParam)
		if err := requireSelf(c, userId); err != nil {
			return err
		}

		req := studio.AnalyzeRequest{}
		if err := c.Bind(&req); err != nil {
			return apierr.BadRequest("send a JSON body with fittingId and smiles", err)
		}
		if req.FittingId == "" || req.SMILES == "" {
			return apierr.BadRequest("fittingId and smiles are required", nil)
		}

		fitting, err := fittings.Get(ctx, userId, req.FittingId)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		results := predict(fitting, req.SMILES)
		err = molecules.AddAnalysis(ctx, userId, req.SMILES, req.FittingId, results)
		if errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, results)
	}
}

// predict is the inference counterpart of the simulated training engine:
// stable in its inputs, so re-analyzing a molecule yields the same numbers.
func predict(fitting domain.Fitting, smiles string) domain.AnalysisResult {
	results := domain.AnalysisResult{}
	for _, label := range fitting.Labels {
		h := fnv.New32a()
		fmt.Fprintf(h, "%s/%s/%s", fitting.FittingId, smiles, label)
		value := float64(h.Sum32()%10000) / 10000.0
		results[label] = value * fitting.Accuracy
	}
	return results
}
