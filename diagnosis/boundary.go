package diagnosis

import (
	"fmt"
	"sort"

	"github.com/simao-eugenio/shypn-sub018/subnet"
)

// analyzeBoundary runs the level-3 checks: accumulation and depletion
// at boundary places over the simulated trajectory, plus the overall
// net-flow balance across the subnet edge.
func (e *Engine) analyzeBoundary(sn *subnet.Subnet, report *Report) {
	analysis := &BoundaryAnalysis{}
	full := e.kb.Net()
	scope := "subnet"

	boundary := make([]string, 0, len(sn.Boundary))
	for pid := range sn.Boundary {
		boundary = append(boundary, pid)
	}
	sort.Strings(boundary)

	// Direction relative to the subnet: fed from outside is an input,
	// feeding the outside is an output.
	isInput := make(map[string]bool)
	isOutput := make(map[string]bool)
	for _, pid := range boundary {
		for _, arc := range full.ArcsTouching(pid) {
			if arc.Target == pid && full.IsTransition(arc.Source) && !sn.Net.IsTransition(arc.Source) {
				isInput[pid] = true
			}
			if arc.Source == pid && full.IsTransition(arc.Target) && !sn.Net.IsTransition(arc.Target) {
				isOutput[pid] = true
			}
		}
		if isInput[pid] {
			analysis.InputPlaces = append(analysis.InputPlaces, pid)
		}
		if isOutput[pid] {
			analysis.OutputPlaces = append(analysis.OutputPlaces, pid)
		}
	}

	trace, haveTrace := e.kb.LatestTrace()
	if haveTrace {
		initial, final := trace.Initial(), trace.Final()
		for _, pid := range boundary {
			start, end := initial.Get(pid), final.Get(pid)

			// Accumulation: final tokens beyond the configured multiple
			// of initial. A place starting empty is measured against
			// the multiple alone.
			base := start
			if base == 0 {
				base = 1
			}
			if float64(end) > float64(base)*e.cfg.Diagnosis.AccumulationFactor {
				e.addIssue(report, Issue{
					Severity:   SeverityWarning,
					Category:   CategoryAccumulation,
					Message:    fmt.Sprintf("boundary place %s accumulated from %d to %d tokens", pid, start, end),
					ElementIDs: []string{pid},
					Scope:      scope,
				})
				e.addSuggestion(report, Suggestion{
					Action:     ActionAddSink,
					TargetID:   pid,
					Value:      float64(start),
					Confidence: 0.6,
					Reasoning: []string{
						fmt.Sprintf("trajectory shows %s growing %d -> %d over %.2f time units", pid, start, end, trace.Duration),
						"a controlled sink drains the excess without touching upstream rates",
					},
				})
			}

			// Depletion: warning below the warn ratio, error below the
			// critical ratio.
			if start > 0 {
				ratio := float64(end) / float64(start)
				switch {
				case ratio < e.cfg.Diagnosis.DepletionCriticalRatio:
					e.addIssue(report, Issue{
						Severity:   SeverityError,
						Category:   CategoryDepletion,
						Message:    fmt.Sprintf("critical depletion of boundary place %s: %d -> %d tokens", pid, start, end),
						ElementIDs: []string{pid},
						Scope:      scope,
					})
					e.suggestSource(report, pid, start, PriorityCritical)
				case ratio < e.cfg.Diagnosis.DepletionWarnRatio:
					e.addIssue(report, Issue{
						Severity:   SeverityWarning,
						Category:   CategoryDepletion,
						Message:    fmt.Sprintf("boundary place %s depleted from %d to %d tokens", pid, start, end),
						ElementIDs: []string{pid},
						Scope:      scope,
					})
					e.suggestSource(report, pid, start, PriorityNormal)
				}
			}

			// Net flow bookkeeping.
			if isInput[pid] && end < start {
				analysis.Inputs += start - end
			}
			if isOutput[pid] && end > start {
				analysis.Outputs += end - start
			}
		}

		analysis.NetFlow = analysis.Inputs - analysis.Outputs
		if abs(analysis.NetFlow) > int(e.cfg.Diagnosis.NetFlowImbalance) {
			e.addIssue(report, Issue{
				Severity:   SeverityWarning,
				Category:   CategoryBalance,
				Message:    fmt.Sprintf("subnet net flow is imbalanced: %d in, %d out", analysis.Inputs, analysis.Outputs),
				ElementIDs: boundary,
				Scope:      scope,
			})
			for _, tid := range sn.Net.TransitionIDs() {
				inf := e.kb.InferFiringRate(tid)
				e.addSuggestion(report, Suggestion{
					Action:     ActionSetRate,
					TargetID:   tid,
					Value:      inf.Value,
					Confidence: inf.Confidence * 0.5,
					Reasoning:  append(inf.Reasoning, "rebalancing candidate for the subnet's net-flow imbalance"),
				})
			}
		}
	}

	report.Boundary = analysis
}

func (e *Engine) suggestSource(report *Report, placeID string, previous int, priority Priority) {
	value := float64(previous)
	confidence := 0.5
	reasoning := []string{fmt.Sprintf("boundary place %s risks running dry", placeID)}
	if inf, ok := e.kb.InferInitialMarking(placeID); ok {
		value = inf.Value
		confidence = inf.Confidence
		reasoning = append(reasoning, inf.Reasoning...)
	}
	e.addSuggestion(report, Suggestion{
		Action:     ActionAddSource,
		TargetID:   placeID,
		Value:      value,
		Confidence: confidence,
		Reasoning:  append(reasoning, fmt.Sprintf("add or increase a controlled source feeding %s", placeID)),
		Priority:   priority,
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
