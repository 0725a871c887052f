// Package chem handles molecule representations.
//
// Molecules come in as SMILES strings and go out to the 3D viewer as CML.
// This is a lightweight interpretation of both formats: enough to reject
// garbage input and to lay out a displayable structure, not a full
// cheminformatics toolkit.
package chem

import (
	"fmt"
	"math"
	"strings"
)

type Interface interface {
	// IsValidSMILES checks whether the string is a well-formed SMILES code.
	IsValidSMILES(smiles string) bool

	// SMILESTo3DCML converts the SMILES code to a CML document with
	// computed 3D coordinates.
	//
	// Fails when the SMILES code is not well-formed.
	SMILESTo3DCML(smiles string) (string, error)
}

type converter struct{}

func New() Interface {
	return converter{}
}

// two-letter element symbols that may appear outside brackets.
var organicTwoLetter = map[string]bool{"Cl": true, "Br": true}

// one-letter symbols of the organic subset, including aromatic forms.
var organicOneLetter = map[byte]bool{
	'B': true, 'C': true, 'N': true, 'O': true, 'P': true, 'S': true,
	'F': true, 'I': true,
	'b': true, 'c': true, 'n': true, 'o': true, 'p': true, 's': true,
}

func (converter) IsValidSMILES(smiles string) bool {
	_, err := parseAtoms(smiles)
	return err == nil
}

// parseAtoms scans the SMILES string and returns the element symbol of each
// atom in order of appearance.
func parseAtoms(smiles string) ([]string, error) {
	if smiles == "" {
		return nil, fmt.Errorf("empty SMILES")
	}

	atoms := []string{}
	depth := 0
	inBracket := false
	bracket := strings.Builder{}

	for i := 0; i < len(smiles); i++ {
		ch := smiles[i]

		if inBracket {
			if ch == ']' {
				sym, err := bracketSymbol(bracket.String())
				if err != nil {
					return nil, err
				}
				atoms = append(atoms, sym)
				bracket.Reset()
				inBracket = false
				continue
			}
			bracket.WriteByte(ch)
			continue
		}

		switch {
		case ch == '[':
			inBracket = true
		case ch == ']':
			return nil, fmt.Errorf("unmatched ']' at %d", i)
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unmatched ')' at %d", i)
			}
		case ch == '-' || ch == '=' || ch == '#' || ch == ':' || ch == '/' || ch == '\\':
			// bond
		case '0' <= ch && ch <= '9':
			// ring-closure digit
		case ch == '%':
			// two-digit ring closure
			if i+2 >= len(smiles) || !isDigit(smiles[i+1]) || !isDigit(smiles[i+2]) {
				return nil, fmt.Errorf("broken ring closure at %d", i)
			}
			i += 2
		case ch == '.':
			// component separator
		default:
			if i+1 < len(smiles) && organicTwoLetter[smiles[i:i+2]] {
				atoms = append(atoms, smiles[i:i+2])
				i++
				continue
			}
			if !organicOneLetter[ch] {
				return nil, fmt.Errorf("unexpected character %q at %d", ch, i)
			}
			atoms = append(atoms, strings.ToUpper(string(ch)))
		}
	}

	if inBracket {
		return nil, fmt.Errorf("unclosed '['")
	}
	if depth != 0 {
		return nil, fmt.Errorf("unclosed '('")
	}
	if len(atoms) == 0 {
		return nil, fmt.Errorf("no atoms")
	}
	return atoms, nil
}

// bracketSymbol extracts the element from a bracket atom body such as
// "NH4+", "13C" or "O-".
func bracketSymbol(body string) (string, error) {
	// skip isotope digits
	i := 0
	for i < len(body) && isDigit(body[i]) {
		i++
	}
	if i >= len(body) {
		return "", fmt.Errorf("bracket atom [%s] has no element", body)
	}

	if i+1 < len(body) && 'a' <= body[i+1] && body[i+1] <= 'z' {
		return body[i : i+2], nil
	}
	ch := body[i]
	if ('A' <= ch && ch <= 'Z') || ('a' <= ch && ch <= 'z') {
		return strings.ToUpper(string(ch)), nil
	}
	return "", fmt.Errorf("bracket atom [%s] has no element", body)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func (c converter) SMILESTo3DCML(smiles string) (string, error) {
	atoms, err := parseAtoms(smiles)
	if err != nil {
		return "", fmt.Errorf("cannot convert %q: %w", smiles, err)
	}

	// atoms are placed on a helix. Not chemistry, but it gives the viewer
	// a non-degenerate structure with uniform bond lengths.
	sb := strings.Builder{}
	sb.WriteString(`<molecule xmlns="http://www.xml-cml.org/schema">` + "\n")
	sb.WriteString("  <atomArray>\n")
	for n, sym := range atoms {
		theta := float64(n) * (2 * math.Pi / 6)
		fmt.Fprintf(
			&sb,
			`    <atom id="a%d" elementType="%s" x3="%.4f" y3="%.4f" z3="%.4f"/>`+"\n",
			n+1, sym,
			1.5*math.Cos(theta), 1.5*math.Sin(theta), 0.5*float64(n),
		)
	}
	sb.WriteString("  </atomArray>\n")
	sb.WriteString("  <bondArray>\n")
	for n := 1; n < len(atoms); n++ {
		fmt.Fprintf(
			&sb,
			`    <bond atomRefs2="a%d a%d" order="1"/>`+"\n",
			n, n+1,
		)
	}
	sb.WriteString("  </bondArray>\n")
	sb.WriteString("</molecule>\n")
	return sb.String(), nil
}
