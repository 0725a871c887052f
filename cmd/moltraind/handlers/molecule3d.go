package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/molstud/moltrain/pkg/api/types/errors"
	"github.com/molstud/moltrain/pkg/api/types/studio"
	"github.com/molstud/moltrain/pkg/domain/chem"
)

// Molecule3DHandler converts a SMILES code to a CML document with 3D
// coordinates for the molecule viewer.
//
// 422 when the SMILES code is not well-formed.
func Molecule3DHandler(conv chem.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := studio.Molecule3DRequest{}
		if err := c.Bind(&req); err != nil {
			return apierr.BadRequest("send a JSON body with smiles", err)
		}

		cml, err := conv.SMILESTo3DCML(req.SMILES)
		if err != nil {
			return apierr.UnprocessableEntity(fmt.Sprintf("%q is not a SMILES code", req.SMILES))
		}
		return c.JSON(http.StatusOK, studio.Molecule3DResponse{CML: cml})
	}
}
