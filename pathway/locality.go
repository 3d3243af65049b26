package pathway

import "sort"

// Locality is one transition together with its directly adjacent places
// and arcs. Localities are the unit of selection for subnet extraction
// and for per-transition diagnosis.
type Locality struct {
	TransitionID string
	PlaceIDs     []string
	ArcIDs       []string
}

// LocalityOf extracts the locality around a transition.
func (n *Net) LocalityOf(transitionID string) (*Locality, error) {
	if !n.IsTransition(transitionID) {
		return nil, ErrUnknownTransition
	}
	loc := &Locality{TransitionID: transitionID}
	places := make(map[string]bool)
	for _, arc := range n.Arcs {
		if arc.Target == transitionID && n.IsPlace(arc.Source) {
			places[arc.Source] = true
			loc.ArcIDs = append(loc.ArcIDs, arc.ID)
		}
		if arc.Source == transitionID && n.IsPlace(arc.Target) {
			places[arc.Target] = true
			loc.ArcIDs = append(loc.ArcIDs, arc.ID)
		}
	}
	for p := range places {
		loc.PlaceIDs = append(loc.PlaceIDs, p)
	}
	sort.Strings(loc.PlaceIDs)
	sort.Strings(loc.ArcIDs)
	return loc, nil
}

// SharesPlace reports whether two localities have at least one place
// in common.
func (l *Locality) SharesPlace(other *Locality) bool {
	seen := make(map[string]bool, len(l.PlaceIDs))
	for _, p := range l.PlaceIDs {
		seen[p] = true
	}
	for _, p := range other.PlaceIDs {
		if seen[p] {
			return true
		}
	}
	return false
}
