package diagnosis

import (
	"fmt"
	"math"

	"github.com/simao-eugenio/shypn-sub018/subnet"
)

// analyzeDependencies runs the level-2 checks over the subnet's
// inter-locality flow relationships: producer/consumer imbalance,
// bottlenecks, and cascades attributed to their root cause.
func (e *Engine) analyzeDependencies(sn *subnet.Subnet, report *Report) {
	trace, haveTrace := e.kb.LatestTrace()
	scope := "subnet"

	// Observed flux per transition, falling back to inferred rates when
	// no trace exists.
	flux := make(map[string]float64, len(sn.Net.Transitions))
	for tid := range sn.Net.Transitions {
		if haveTrace && trace.Duration > 0 {
			flux[tid] = float64(trace.Firings[tid]) / trace.Duration
		} else {
			flux[tid] = e.kb.InferFiringRate(tid).Value
		}
	}

	// (a) Flow imbalance along each dependency.
	for _, dep := range sn.Dependencies {
		produced, consumed := flux[dep.Source], flux[dep.Target]
		if produced == 0 && consumed == 0 {
			continue
		}
		scale := math.Max(produced, consumed)
		if math.Abs(produced-consumed)/scale > e.cfg.Diagnosis.FlowImbalanceTolerance {
			e.addIssue(report, Issue{
				Severity:   SeverityWarning,
				Category:   CategoryFlow,
				Message:    fmt.Sprintf("flow through place %s is imbalanced: %s produces at %.3f, %s consumes at %.3f", dep.PlaceID, dep.Source, produced, dep.Target, consumed),
				ElementIDs: []string{dep.Source, dep.PlaceID, dep.Target},
				Scope:      scope,
			})
		}
	}

	// (b) Bottlenecks: a transition markedly slower than the mean of
	// its dependents limits downstream throughput.
	dependents := make(map[string][]string)
	for _, dep := range sn.Dependencies {
		dependents[dep.Source] = append(dependents[dep.Source], dep.Target)
	}
	for tid, downs := range dependents {
		if len(downs) == 0 {
			continue
		}
		mean := 0.0
		for _, d := range downs {
			mean += flux[d]
		}
		mean /= float64(len(downs))
		if mean > 0 && flux[tid] < mean*e.cfg.Diagnosis.BottleneckRatio {
			e.addIssue(report, Issue{
				Severity:   SeverityWarning,
				Category:   CategoryBottleneck,
				Message:    fmt.Sprintf("transition %s (%.3f/time) limits its %d dependents (mean %.3f/time)", tid, flux[tid], len(downs), mean),
				ElementIDs: append([]string{tid}, downs...),
				Scope:      scope,
			})
			inf := e.kb.InferFiringRate(tid)
			e.addSuggestion(report, Suggestion{
				Action:     ActionSetRate,
				TargetID:   tid,
				Value:      inf.Value,
				Confidence: inf.Confidence,
				Reasoning:  append(inf.Reasoning, fmt.Sprintf("raising the rate of %s relieves the bottleneck on %v", tid, downs)),
			})
		}
	}

	// (c) Cascades: when an upstream transition with a locality-level
	// issue reaches a downstream transition that also shows one, the
	// upstream is the root cause and the downstream finding a symptom.
	flagged := make(map[string]bool)
	for _, issue := range report.Issues {
		if issue.Category == CategoryStructural || issue.Category == CategoryKinetic {
			for _, el := range issue.ElementIDs {
				if sn.Net.IsTransition(el) {
					flagged[el] = true
				}
			}
		}
	}
	for symptom := range flagged {
		for _, up := range sn.Upstream(symptom) {
			if !flagged[up] {
				continue
			}
			e.addIssue(report, Issue{
				Severity:   SeverityInfo,
				Category:   CategoryCascade,
				Message:    fmt.Sprintf("issue on %s is likely a downstream symptom of %s; address %s first", symptom, up, up),
				ElementIDs: []string{up, symptom},
				Scope:      scope,
			})
			// Keep the repair effort on the root cause.
			report.Suggestions = retargetSymptomSuggestions(report.Suggestions, symptom, up)
		}
	}
}

// retargetSymptomSuggestions drops rate suggestions aimed at a symptom
// transition when a flagged upstream root cause exists; the root's own
// suggestions stay.
func retargetSymptomSuggestions(suggestions []Suggestion, symptom, root string) []Suggestion {
	kept := suggestions[:0]
	for _, s := range suggestions {
		if s.Action == ActionSetRate && s.TargetID == symptom {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}
