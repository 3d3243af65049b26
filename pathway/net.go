// Package pathway implements the token-flow network model that the
// knowledge base and diagnosis engine operate on. A network is a
// Petri-net-style graph of Places (metabolite pools holding tokens),
// Transitions (reactions), and weighted directed Arcs connecting them.
package pathway

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownPlace      = errors.New("pathway: unknown place")
	ErrUnknownTransition = errors.New("pathway: unknown transition")
	ErrUnknownArc        = errors.New("pathway: unknown arc")
)

// Place represents a token pool in the network.
// Tokens is the declared initial marking; the live marking during
// simulation is tracked separately as a Marking.
type Place struct {
	ID     string
	Name   string
	Tokens int
}

// NewPlace creates a place with the given identifier and initial tokens.
func NewPlace(id, name string, tokens int) *Place {
	return &Place{ID: id, Name: name, Tokens: tokens}
}

// Transition represents an event that consumes tokens from its input
// places and produces tokens in its output places when it fires.
type Transition struct {
	ID   string
	Name string
}

// NewTransition creates a transition with the given identifier.
func NewTransition(id, name string) *Transition {
	return &Transition{ID: id, Name: name}
}

// Arc is a directed weighted connection between a place and a transition.
// Direction is place->transition (input arc) or transition->place
// (output arc); Weight is the token count consumed or produced per firing.
type Arc struct {
	ID     string
	Source string
	Target string
	Weight int
}

// ArcID synthesizes the canonical identifier for an arc between two elements.
func ArcID(source, target string) string {
	return source + "->" + target
}

// NewArc creates an arc. A non-positive weight defaults to 1.
func NewArc(source, target string, weight int) *Arc {
	if weight <= 0 {
		weight = 1
	}
	return &Arc{ID: ArcID(source, target), Source: source, Target: target, Weight: weight}
}

// Net represents a complete token-flow network.
type Net struct {
	Places      map[string]*Place
	Transitions map[string]*Transition
	Arcs        []*Arc
}

// NewNet creates an empty network.
func NewNet() *Net {
	return &Net{
		Places:      make(map[string]*Place),
		Transitions: make(map[string]*Transition),
		Arcs:        make([]*Arc, 0),
	}
}

// AddPlace adds a place and returns it. An existing place with the same
// identifier is replaced.
func (n *Net) AddPlace(id, name string, tokens int) *Place {
	p := NewPlace(id, name, tokens)
	n.Places[id] = p
	return p
}

// AddTransition adds a transition and returns it.
func (n *Net) AddTransition(id, name string) *Transition {
	t := NewTransition(id, name)
	n.Transitions[id] = t
	return t
}

// AddArc adds an arc and returns it.
func (n *Net) AddArc(source, target string, weight int) *Arc {
	a := NewArc(source, target, weight)
	n.Arcs = append(n.Arcs, a)
	return a
}

// IsPlace reports whether the identifier names a place.
func (n *Net) IsPlace(id string) bool {
	_, ok := n.Places[id]
	return ok
}

// IsTransition reports whether the identifier names a transition.
func (n *Net) IsTransition(id string) bool {
	_, ok := n.Transitions[id]
	return ok
}

// Arc returns the arc with the given identifier.
func (n *Net) Arc(id string) (*Arc, bool) {
	for _, a := range n.Arcs {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// InputArcs returns all arcs leading into the given transition.
func (n *Net) InputArcs(transitionID string) []*Arc {
	var result []*Arc
	for _, arc := range n.Arcs {
		if arc.Target == transitionID {
			result = append(result, arc)
		}
	}
	return result
}

// OutputArcs returns all arcs leading out of the given transition.
func (n *Net) OutputArcs(transitionID string) []*Arc {
	var result []*Arc
	for _, arc := range n.Arcs {
		if arc.Source == transitionID {
			result = append(result, arc)
		}
	}
	return result
}

// ArcsTouching returns all arcs with the given place as source or target.
func (n *Net) ArcsTouching(placeID string) []*Arc {
	var result []*Arc
	for _, arc := range n.Arcs {
		if arc.Source == placeID || arc.Target == placeID {
			result = append(result, arc)
		}
	}
	return result
}

// TransitionsTouching returns the identifiers of all transitions connected
// to the given place by at least one arc, in sorted order.
func (n *Net) TransitionsTouching(placeID string) []string {
	seen := make(map[string]bool)
	for _, arc := range n.Arcs {
		if arc.Source == placeID && n.IsTransition(arc.Target) {
			seen[arc.Target] = true
		}
		if arc.Target == placeID && n.IsTransition(arc.Source) {
			seen[arc.Source] = true
		}
	}
	result := make([]string, 0, len(seen))
	for t := range seen {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}

// InitialMarking builds a marking from the declared initial tokens.
func (n *Net) InitialMarking() Marking {
	m := make(Marking, len(n.Places))
	for id, p := range n.Places {
		m[id] = p.Tokens
	}
	return m
}

// PlaceIDs returns all place identifiers in sorted order.
func (n *Net) PlaceIDs() []string {
	ids := make([]string, 0, len(n.Places))
	for id := range n.Places {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TransitionIDs returns all transition identifiers in sorted order.
func (n *Net) TransitionIDs() []string {
	ids := make([]string, 0, len(n.Transitions))
	for id := range n.Transitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks that every arc connects an existing place to an existing
// transition (in either direction) and that weights are positive.
func (n *Net) Validate() error {
	for _, arc := range n.Arcs {
		srcPlace := n.IsPlace(arc.Source)
		srcTrans := n.IsTransition(arc.Source)
		dstPlace := n.IsPlace(arc.Target)
		dstTrans := n.IsTransition(arc.Target)

		switch {
		case !srcPlace && !srcTrans:
			return fmt.Errorf("pathway: arc %s source %q is neither place nor transition", arc.ID, arc.Source)
		case !dstPlace && !dstTrans:
			return fmt.Errorf("pathway: arc %s target %q is neither place nor transition", arc.ID, arc.Target)
		case srcPlace && !dstTrans:
			return fmt.Errorf("pathway: arc %s must connect place %q to a transition", arc.ID, arc.Source)
		case srcTrans && !dstPlace:
			return fmt.Errorf("pathway: arc %s must connect transition %q to a place", arc.ID, arc.Source)
		}
		if arc.Weight <= 0 {
			return fmt.Errorf("pathway: arc %s has non-positive weight %d", arc.ID, arc.Weight)
		}
	}
	return nil
}

// Clone returns a deep copy of the network.
func (n *Net) Clone() *Net {
	c := NewNet()
	for id, p := range n.Places {
		c.Places[id] = &Place{ID: p.ID, Name: p.Name, Tokens: p.Tokens}
	}
	for id, t := range n.Transitions {
		c.Transitions[id] = &Transition{ID: t.ID, Name: t.Name}
	}
	for _, a := range n.Arcs {
		c.Arcs = append(c.Arcs, &Arc{ID: a.ID, Source: a.Source, Target: a.Target, Weight: a.Weight})
	}
	return c
}
