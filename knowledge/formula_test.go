package knowledge

import (
	"errors"
	"math"
	"testing"
)

func TestFormulaMass(t *testing.T) {
	cases := []struct {
		formula string
		want    float64
	}{
		{"H2O", 18.015},
		{"C6H12O6", 180.156},
		{"Ca(OH)2", 74.092},
		{"NaCl", 58.44},
	}
	for _, tc := range cases {
		t.Run(tc.formula, func(t *testing.T) {
			got, err := FormulaMass(tc.formula)
			if err != nil {
				t.Fatalf("FormulaMass(%q): %v", tc.formula, err)
			}
			if math.Abs(got-tc.want) > 0.01 {
				t.Errorf("FormulaMass(%q) = %v, want %v", tc.formula, got, tc.want)
			}
		})
	}
}

func TestFormulaMassRejectsMalformed(t *testing.T) {
	for _, formula := range []string{"Xx", "C6(", "C6)", "6C", "C6H12O6)"} {
		if _, err := FormulaMass(formula); !errors.Is(err, ErrBadFormula) {
			t.Errorf("FormulaMass(%q) err = %v, want ErrBadFormula", formula, err)
		}
	}
}
