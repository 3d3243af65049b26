package repair

import (
	"fmt"
	"sort"

	"github.com/simao-eugenio/shypn-sub018/diagnosis"
	"github.com/simao-eugenio/shypn-sub018/subnet"
)

// Prediction estimates the reach of one suggestion before it is
// committed.
type Prediction struct {
	TargetID string   `json:"targetId"`
	Affected []string `json:"affected,omitempty"`
}

// Predict traverses the subnet's dependency structure downstream from
// the suggestion's target and returns the elements whose behavior the
// change could plausibly alter. Nothing is mutated.
func Predict(sn *subnet.Subnet, s diagnosis.Suggestion) (*Prediction, error) {
	var starts []string
	switch s.Action {
	case diagnosis.ActionSetRate:
		if !sn.Net.IsTransition(s.TargetID) {
			return nil, fmt.Errorf("%w: transition %s", ErrUnknownTarget, s.TargetID)
		}
		starts = []string{s.TargetID}
	case diagnosis.ActionSetMarking, diagnosis.ActionAddSource, diagnosis.ActionAddSink:
		if !sn.Net.IsPlace(s.TargetID) {
			return nil, fmt.Errorf("%w: place %s", ErrUnknownTarget, s.TargetID)
		}
		for _, arc := range sn.Net.ArcsTouching(s.TargetID) {
			if arc.Source == s.TargetID {
				starts = append(starts, arc.Target)
			}
		}
	case diagnosis.ActionSetWeight:
		arc, ok := sn.Net.Arc(s.TargetID)
		if !ok {
			return nil, fmt.Errorf("%w: arc %s", ErrUnknownTarget, s.TargetID)
		}
		if sn.Net.IsTransition(arc.Source) {
			starts = []string{arc.Source}
		} else {
			starts = []string{arc.Target}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrBadAction, s.Action)
	}

	affected := make(map[string]bool)
	for _, start := range starts {
		if start != s.TargetID {
			affected[start] = true
		}
		for _, arc := range sn.Net.OutputArcs(start) {
			affected[arc.Target] = true
		}
		for _, tid := range sn.Downstream(start) {
			affected[tid] = true
			for _, arc := range sn.Net.OutputArcs(tid) {
				affected[arc.Target] = true
			}
		}
	}
	delete(affected, s.TargetID)

	p := &Prediction{TargetID: s.TargetID}
	for id := range affected {
		p.Affected = append(p.Affected, id)
	}
	sort.Strings(p.Affected)
	return p, nil
}
