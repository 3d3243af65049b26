package knowledge

import "fmt"

// Monoisotopic-adjacent standard atomic weights for the elements that
// occur in metabolic formulas. Enough for mass balance; exotic
// elements fail the parse and the check is skipped for that reaction.
var atomicMass = map[string]float64{
	"H": 1.008, "C": 12.011, "N": 14.007, "O": 15.999,
	"P": 30.974, "S": 32.06, "Na": 22.990, "K": 39.098,
	"Cl": 35.45, "Ca": 40.078, "Mg": 24.305, "Fe": 55.845,
	"Zn": 65.38, "Cu": 63.546, "Mn": 54.938, "Co": 58.933,
	"Se": 78.971, "I": 126.904, "Mo": 95.95, "F": 18.998,
	"Br": 79.904, "Si": 28.085, "B": 10.81,
}

// FormulaMass computes the molecular mass of a chemical formula such
// as "C6H12O6" or "Ca(OH)2". Unknown symbols or malformed input return
// ErrBadFormula.
func FormulaMass(formula string) (float64, error) {
	mass, rest, err := parseGroup(formula, false)
	if err != nil {
		return 0, err
	}
	if rest != "" {
		return 0, fmt.Errorf("%w: trailing %q in %q", ErrBadFormula, rest, formula)
	}
	return mass, nil
}

// parseGroup parses element/group sequences until end of input or, when
// nested, a closing parenthesis.
func parseGroup(s string, nested bool) (float64, string, error) {
	total := 0.0
	for len(s) > 0 {
		switch {
		case s[0] == ')':
			if !nested {
				return 0, "", fmt.Errorf("%w: unmatched ')'", ErrBadFormula)
			}
			return total, s, nil
		case s[0] == '(':
			inner, rest, err := parseGroup(s[1:], true)
			if err != nil {
				return 0, "", err
			}
			if len(rest) == 0 || rest[0] != ')' {
				return 0, "", fmt.Errorf("%w: unmatched '('", ErrBadFormula)
			}
			count, rest := parseCount(rest[1:])
			total += inner * float64(count)
			s = rest
		case s[0] >= 'A' && s[0] <= 'Z':
			symbol := s[:1]
			s = s[1:]
			if len(s) > 0 && s[0] >= 'a' && s[0] <= 'z' {
				symbol += s[:1]
				s = s[1:]
			}
			m, ok := atomicMass[symbol]
			if !ok {
				return 0, "", fmt.Errorf("%w: unknown element %q", ErrBadFormula, symbol)
			}
			var count int
			count, s = parseCount(s)
			total += m * float64(count)
		default:
			return 0, "", fmt.Errorf("%w: unexpected %q", ErrBadFormula, s[:1])
		}
	}
	if nested {
		return 0, "", fmt.Errorf("%w: unmatched '('", ErrBadFormula)
	}
	return total, "", nil
}

func parseCount(s string) (int, string) {
	n := 0
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == 0 {
		return 1, s
	}
	return n, s[i:]
}
