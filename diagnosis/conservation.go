package diagnosis

import (
	"errors"
	"fmt"
	"math"

	"github.com/simao-eugenio/shypn-sub018/knowledge"
	"github.com/simao-eugenio/shypn-sub018/subnet"
)

// analyzeConservation runs the level-4 checks: P-invariant drift over
// the whole trajectory, mass balance of mapped reactions and leak
// detection on conserved quantities.
func (e *Engine) analyzeConservation(sn *subnet.Subnet, report *Report) {
	analysis := &ConservationAnalysis{}
	scope := "subnet"

	// Only invariants lying entirely inside the subnet are checkable:
	// boundary traffic legitimately moves tokens of partial invariants.
	var local []knowledge.PInvariant
	for _, inv := range e.kb.PInvariants() {
		inside := true
		for _, pid := range inv.Places {
			if !sn.Net.IsPlace(pid) {
				inside = false
				break
			}
		}
		if inside {
			local = append(local, inv)
		}
	}

	trace, haveTrace := e.kb.LatestTrace()
	if haveTrace {
		for _, inv := range local {
			violated := false
			for _, sample := range trace.Samples {
				sum := inv.WeightedSum(sample.Marking)
				if math.Abs(float64(sum-inv.Constant)) > e.cfg.Diagnosis.InvariantTolerance {
					if !violated {
						e.addIssue(report, Issue{
							Severity:   SeverityError,
							Category:   CategoryPInvariant,
							Message:    fmt.Sprintf("P-invariant %s drifted to %d (declared constant %d) at time %.3f", inv.ID, sum, inv.Constant, sample.Time),
							ElementIDs: append([]string(nil), inv.Places...),
							Scope:      scope,
						})
						analysis.ViolatedInvariants = append(analysis.ViolatedInvariants, inv.ID)
					}
					violated = true
				}
			}
		}

		// Leaks: drift of a conserved quantity between the first and
		// last samples without a declared source or sink acting on it.
		for _, inv := range local {
			startSum := inv.WeightedSum(trace.Initial())
			endSum := inv.WeightedSum(trace.Final())
			if startSum == endSum {
				continue
			}
			if e.hasDeclaredSourceOrSink(sn, inv.Places) {
				continue
			}
			e.addIssue(report, Issue{
				Severity:   SeverityError,
				Category:   CategoryLeak,
				Message:    fmt.Sprintf("conserved quantity %s changed %d -> %d with no declared source or sink", inv.ID, startSum, endSum),
				ElementIDs: append([]string(nil), inv.Places...),
				Scope:      scope,
			})
			analysis.Leaks = append(analysis.Leaks, inv.ID)
		}
	}

	// Mass balance for every subnet transition with a mapped reaction.
	for _, tid := range sn.Net.TransitionIDs() {
		reaction, ok := e.kb.ReactionOf(tid)
		if !ok {
			continue
		}
		substrate, err := e.sideMass(reaction.Substrates)
		if err != nil {
			if !errors.Is(err, errFormulaUnknown) {
				e.addIssue(report, Issue{
					Severity:   SeverityInfo,
					Category:   CategoryMassBalance,
					Message:    fmt.Sprintf("cannot check mass balance of reaction %s: %v", reaction.ID, err),
					ElementIDs: []string{tid},
					Scope:      scope,
				})
			}
			continue
		}
		product, err := e.sideMass(reaction.Products)
		if err != nil {
			continue
		}
		scale := math.Max(substrate, product)
		if scale == 0 {
			continue
		}
		if math.Abs(substrate-product)/scale > e.cfg.Diagnosis.MassBalanceTolerance {
			e.addIssue(report, Issue{
				Severity:   SeverityError,
				Category:   CategoryMassBalance,
				Message:    fmt.Sprintf("reaction %s is mass imbalanced: substrates %.2f vs products %.2f", reaction.ID, substrate, product),
				ElementIDs: []string{tid},
				Scope:      scope,
			})
			analysis.MassImbalances = append(analysis.MassImbalances, reaction.ID)
		}
	}

	report.Conservation = analysis
}

var errFormulaUnknown = errors.New("diagnosis: compound formula unknown")

// sideMass sums coefficient-weighted formula masses for one side of a
// reaction. Missing or unparseable formulas make the side uncheckable.
func (e *Engine) sideMass(side []knowledge.Stoichiometry) (float64, error) {
	total := 0.0
	for _, s := range side {
		compound, ok := e.kb.Compound(s.CompoundID)
		if !ok || compound.Formula == "" {
			return 0, errFormulaUnknown
		}
		mass, err := knowledge.FormulaMass(compound.Formula)
		if err != nil {
			return 0, err
		}
		total += float64(s.Coefficient) * mass
	}
	return total, nil
}

// hasDeclaredSourceOrSink reports whether any subnet transition acts as
// a source or sink on the given places (fires without consuming from
// them, or consumes without producing anywhere).
func (e *Engine) hasDeclaredSourceOrSink(sn *subnet.Subnet, places []string) bool {
	inSet := make(map[string]bool, len(places))
	for _, p := range places {
		inSet[p] = true
	}
	for tid := range sn.Net.Transitions {
		inputs := sn.Net.InputArcs(tid)
		outputs := sn.Net.OutputArcs(tid)
		touches := false
		for _, a := range outputs {
			if inSet[a.Target] {
				touches = true
			}
		}
		for _, a := range inputs {
			if inSet[a.Source] {
				touches = true
			}
		}
		if touches && (len(inputs) == 0 || len(outputs) == 0) {
			return true
		}
	}
	return false
}
