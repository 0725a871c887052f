package domain

import (
	"github.com/molstud/moltrain/pkg/utils/cmp"
)

// Molecule is a molecule in a user's workspace, identified by its SMILES code.
type Molecule struct {
	// SMILES code of the molecule. Unique per user.
	SMILES string

	Name string

	// CML document of the molecule, as the frontend editor produced it.
	CML string

	// Analyses run against this molecule, keyed by the fittingId which produced them.
	Analyses map[string]AnalysisResult
}

// AnalysisResult maps a dataset label to the value a fitting predicted for it.
type AnalysisResult map[string]float64

func (m Molecule) Equal(o Molecule) bool {
	return m.SMILES == o.SMILES &&
		m.Name == o.Name &&
		m.CML == o.CML &&
		cmp.MapEqWith(m.Analyses, o.Analyses, func(a, b AnalysisResult) bool {
			return cmp.MapEq(a, b)
		})
}
