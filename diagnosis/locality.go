package diagnosis

import (
	"fmt"

	"github.com/simao-eugenio/shypn-sub018/pathway"
)

// analyzeLocality runs the level-1 checks for one transition and its
// adjacent places and arcs: structural shape, biological mapping gaps
// and kinetic behavior against the latest simulation trace.
func (e *Engine) analyzeLocality(loc *pathway.Locality, report *Report) {
	e.checkStructure(loc, report)
	e.checkBiology(loc, report)
	e.checkKinetics(loc, report)
}

func (e *Engine) checkStructure(loc *pathway.Locality, report *Report) {
	net := e.kb.Net()
	tid := loc.TransitionID
	scope := "locality:" + tid

	inputs := net.InputArcs(tid)
	outputs := net.OutputArcs(tid)
	if len(inputs) == 0 {
		e.addIssue(report, Issue{
			Severity:   SeverityWarning,
			Category:   CategoryStructural,
			Message:    fmt.Sprintf("transition %s has no input places (source transition)", tid),
			ElementIDs: []string{tid},
			Scope:      scope,
		})
	}
	if len(outputs) == 0 {
		e.addIssue(report, Issue{
			Severity:   SeverityWarning,
			Category:   CategoryStructural,
			Message:    fmt.Sprintf("transition %s has no output places (sink transition)", tid),
			ElementIDs: []string{tid},
			Scope:      scope,
		})
	}

	// Arc weights against declared reaction stoichiometry.
	for _, arcID := range loc.ArcIDs {
		arc, ok := e.kb.Arc(arcID)
		if !ok {
			continue
		}
		inf, ok := e.kb.InferArcWeight(arcID)
		if !ok || !inf.Mismatch {
			continue
		}
		e.addIssue(report, Issue{
			Severity:   SeverityError,
			Category:   CategoryStructural,
			Message:    fmt.Sprintf("arc %s weight %d disagrees with declared stoichiometry %d", arcID, arc.Weight, int(inf.Value)),
			ElementIDs: []string{arcID, tid},
			Scope:      scope,
		})
		e.addSuggestion(report, Suggestion{
			Action:     ActionSetWeight,
			TargetID:   arcID,
			Value:      inf.Value,
			Confidence: inf.Confidence,
			Reasoning:  inf.Reasoning,
		})
	}

	// A mapped reaction whose substrate or product list is larger than
	// the transition's arc fan suggests missing arcs.
	if reaction, ok := e.kb.ReactionOf(tid); ok {
		if len(reaction.Substrates) > len(inputs) {
			e.addIssue(report, Issue{
				Severity:   SeverityWarning,
				Category:   CategoryStructural,
				Message:    fmt.Sprintf("reaction %s declares %d substrates but transition %s has %d input arcs", reaction.ID, len(reaction.Substrates), tid, len(inputs)),
				ElementIDs: []string{tid},
				Scope:      scope,
			})
		}
		if len(reaction.Products) > len(outputs) {
			e.addIssue(report, Issue{
				Severity:   SeverityWarning,
				Category:   CategoryStructural,
				Message:    fmt.Sprintf("reaction %s declares %d products but transition %s has %d output arcs", reaction.ID, len(reaction.Products), tid, len(outputs)),
				ElementIDs: []string{tid},
				Scope:      scope,
			})
		}
	}
}

func (e *Engine) checkBiology(loc *pathway.Locality, report *Report) {
	tid := loc.TransitionID
	scope := "locality:" + tid

	mappedPlaces := 0
	var unmapped []string
	for _, pid := range loc.PlaceIDs {
		if _, ok := e.kb.CompoundOf(pid); ok {
			mappedPlaces++
		} else {
			unmapped = append(unmapped, pid)
		}
	}

	// An element without a mapping is only suspicious when its
	// neighborhood is otherwise annotated.
	if _, ok := e.kb.ReactionOf(tid); !ok && mappedPlaces > 0 {
		e.addIssue(report, Issue{
			Severity:   SeverityInfo,
			Category:   CategoryBiological,
			Message:    fmt.Sprintf("transition %s has no reaction mapping although %d adjacent places are mapped to compounds", tid, mappedPlaces),
			ElementIDs: []string{tid},
			Scope:      scope,
		})
	}
	if mappedPlaces > 0 && len(unmapped) > 0 {
		e.addIssue(report, Issue{
			Severity:   SeverityInfo,
			Category:   CategoryBiological,
			Message:    fmt.Sprintf("places %v lack a compound mapping while neighbors of %s are mapped", unmapped, tid),
			ElementIDs: unmapped,
			Scope:      scope,
		})
	}
}

func (e *Engine) checkKinetics(loc *pathway.Locality, report *Report) {
	trace, ok := e.kb.LatestTrace()
	if !ok {
		return
	}
	tid := loc.TransitionID
	scope := "locality:" + tid

	firings := trace.Firings[tid]
	if firings == 0 {
		e.addIssue(report, Issue{
			Severity:   SeverityWarning,
			Category:   CategoryKinetic,
			Message:    fmt.Sprintf("transition %s never fired in the latest simulation (%d steps)", tid, trace.Steps),
			ElementIDs: []string{tid},
			Scope:      scope,
		})
		// A never-firing transition usually lacks input tokens; propose
		// markings for its empty input places.
		for _, arc := range e.kb.Net().InputArcs(tid) {
			if pk, ok := e.kb.Place(arc.Source); ok && pk.Tokens == 0 {
				if inf, ok := e.kb.InferInitialMarking(arc.Source); ok {
					e.addSuggestion(report, Suggestion{
						Action:     ActionSetMarking,
						TargetID:   arc.Source,
						Value:      inf.Value,
						Confidence: inf.Confidence,
						Reasoning:  inf.Reasoning,
					})
				}
			}
		}
		return
	}

	if k, ok := e.kb.Kinetics(tid); ok && k.MaxRate > 0 && trace.Duration > 0 {
		observed := float64(firings) / trace.Duration
		if observed < k.MaxRate*e.cfg.Diagnosis.SlowFiringRatio {
			e.addIssue(report, Issue{
				Severity:   SeverityInfo,
				Category:   CategoryKinetic,
				Message:    fmt.Sprintf("transition %s fires at %.3f/time, far below its kinetic maximum %.3f", tid, observed, k.MaxRate),
				ElementIDs: []string{tid},
				Scope:      scope,
			})
			inf := e.kb.InferFiringRate(tid)
			e.addSuggestion(report, Suggestion{
				Action:     ActionSetRate,
				TargetID:   tid,
				Value:      inf.Value,
				Confidence: inf.Confidence,
				Reasoning:  inf.Reasoning,
			})
		}
	}
}
