// Package repair orders, previews and commits suggested parameter
// changes to a subnet. The sequencer resolves inter-suggestion
// dependencies into a stable total order, the predictor estimates the
// blast radius of one suggestion without mutating anything, and the
// applier commits suggestions one at a time with per-step undo.
package repair

import (
	"fmt"
	"sort"

	"github.com/simao-eugenio/shypn-sub018/diagnosis"
	"github.com/simao-eugenio/shypn-sub018/subnet"
)

// Sequence orders suggestions so that every rate change on a
// transition is applied after any marking change on that transition's
// input places, since the marking change alters the enablement the
// rate change assumes. The order is stable: unordered suggestions keep
// their input positions. Two suggestions proposing different values
// for the same target and action are reported as a conflict instead of
// silently picking one.
func Sequence(sn *subnet.Subnet, suggestions []diagnosis.Suggestion) ([]diagnosis.Suggestion, error) {
	type key struct {
		target string
		action diagnosis.Action
	}
	first := make(map[key]int)
	for i, s := range suggestions {
		k := key{s.TargetID, s.Action}
		if j, ok := first[k]; ok {
			if suggestions[j].Value != s.Value {
				return nil, fmt.Errorf("%w: %s proposes %g and %s proposes %g for %s on %s",
					ErrConflict, suggestions[j].ID, suggestions[j].Value, s.ID, s.Value, s.Action, s.TargetID)
			}
			continue
		}
		first[k] = i
	}

	// Edges run marking -> rate, so the graph is bipartite and acyclic.
	after := make([][]int, len(suggestions))
	indegree := make([]int, len(suggestions))
	for i, marking := range suggestions {
		if marking.Action != diagnosis.ActionSetMarking {
			continue
		}
		for j, rate := range suggestions {
			if rate.Action != diagnosis.ActionSetRate {
				continue
			}
			if feedsTransition(sn, marking.TargetID, rate.TargetID) {
				after[i] = append(after[i], j)
				indegree[j]++
			}
		}
	}

	ready := make([]int, 0, len(suggestions))
	for i := range suggestions {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	ordered := make([]diagnosis.Suggestion, 0, len(suggestions))
	for len(ready) > 0 {
		sort.Ints(ready)
		i := ready[0]
		ready = ready[1:]
		ordered = append(ordered, suggestions[i])
		for _, j := range after[i] {
			indegree[j]--
			if indegree[j] == 0 {
				ready = append(ready, j)
			}
		}
	}
	return ordered, nil
}

// feedsTransition reports whether the place is an input of the
// transition inside the subnet.
func feedsTransition(sn *subnet.Subnet, placeID, transitionID string) bool {
	for _, arc := range sn.Net.InputArcs(transitionID) {
		if arc.Source == placeID {
			return true
		}
	}
	return false
}
