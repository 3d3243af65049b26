// Package subnet extracts self-contained sub-networks from a set of
// user-selected localities. A subnet is only constructible when the
// localities form one connected component in the place-sharing graph;
// its places are classified as internal or boundary and its
// inter-transition dependencies are derived for the diagnosis engine.
package subnet

import (
	"errors"
	"fmt"
	"sort"

	"github.com/simao-eugenio/shypn-sub018/pathway"
)

var (
	ErrNoLocalities = errors.New("subnet: no localities given")
	ErrDisconnected = errors.New("subnet: localities do not form one connected component")
	ErrUnknownArc   = errors.New("subnet: locality references unknown arc")
)

// Dependency is a directed flow relationship inside a subnet: tokens
// produced by Source into PlaceID are consumed by Target.
type Dependency struct {
	Source  string
	PlaceID string
	Target  string
}

// Subnet is a validated, connected union of localities extracted as an
// independent copy of the relevant network region.
type Subnet struct {
	Net *pathway.Net

	// Localities the subnet was built from, in input order.
	Localities []*pathway.Locality

	// Internal places have every neighboring transition inside the
	// subnet; Boundary places have at least one arc crossing outside.
	Internal map[string]bool
	Boundary map[string]bool

	Dependencies []Dependency
}

// Build validates connectivity and extracts a subnet from the given
// localities of the full network. The returned subnet owns deep copies
// and never aliases the full model.
func Build(full *pathway.Net, localities []*pathway.Locality) (*Subnet, error) {
	if len(localities) == 0 {
		return nil, ErrNoLocalities
	}

	components := ConnectedComponents(localities)
	if len(components) > 1 {
		return nil, fmt.Errorf("%w: %d components %v", ErrDisconnected, len(components), components)
	}

	sn := &Subnet{
		Net:        pathway.NewNet(),
		Localities: localities,
		Internal:   make(map[string]bool),
		Boundary:   make(map[string]bool),
	}

	arcSeen := make(map[string]bool)
	for _, loc := range localities {
		t, ok := full.Transitions[loc.TransitionID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", pathway.ErrUnknownTransition, loc.TransitionID)
		}
		sn.Net.AddTransition(t.ID, t.Name)
		for _, pid := range loc.PlaceIDs {
			p, ok := full.Places[pid]
			if !ok {
				return nil, fmt.Errorf("%w: %s", pathway.ErrUnknownPlace, pid)
			}
			sn.Net.AddPlace(p.ID, p.Name, p.Tokens)
		}
		for _, aid := range loc.ArcIDs {
			if arcSeen[aid] {
				continue
			}
			a, ok := full.Arc(aid)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownArc, aid)
			}
			arcSeen[aid] = true
			sn.Net.AddArc(a.Source, a.Target, a.Weight)
		}
	}

	sn.classifyPlaces(full)
	sn.deriveDependencies()
	return sn, nil
}

// classifyPlaces partitions subnet places into boundary (at least one
// arc to a transition outside the subnet) and internal.
func (sn *Subnet) classifyPlaces(full *pathway.Net) {
	for pid := range sn.Net.Places {
		boundary := false
		for _, arc := range full.ArcsTouching(pid) {
			other := arc.Source
			if other == pid {
				other = arc.Target
			}
			if full.IsTransition(other) && !sn.Net.IsTransition(other) {
				boundary = true
				break
			}
		}
		if boundary {
			sn.Boundary[pid] = true
		} else {
			sn.Internal[pid] = true
		}
	}
}

// deriveDependencies records every T1 -> shared place -> T2 flow within
// the subnet, sorted for deterministic output.
func (sn *Subnet) deriveDependencies() {
	for _, producing := range sn.Net.Arcs {
		if !sn.Net.IsTransition(producing.Source) {
			continue
		}
		place := producing.Target
		for _, consuming := range sn.Net.Arcs {
			if consuming.Source != place || !sn.Net.IsTransition(consuming.Target) {
				continue
			}
			sn.Dependencies = append(sn.Dependencies, Dependency{
				Source:  producing.Source,
				PlaceID: place,
				Target:  consuming.Target,
			})
		}
	}
	sort.Slice(sn.Dependencies, func(i, j int) bool {
		a, b := sn.Dependencies[i], sn.Dependencies[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.PlaceID != b.PlaceID {
			return a.PlaceID < b.PlaceID
		}
		return a.Target < b.Target
	})
}

// Downstream returns the transitions reachable from one transition by
// following dependencies, excluding the start itself.
func (sn *Subnet) Downstream(transitionID string) []string {
	visited := map[string]bool{transitionID: true}
	queue := []string{transitionID}
	var result []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range sn.Dependencies {
			if dep.Source == current && !visited[dep.Target] {
				visited[dep.Target] = true
				result = append(result, dep.Target)
				queue = append(queue, dep.Target)
			}
		}
	}
	sort.Strings(result)
	return result
}

// Upstream returns the transitions from which one transition is
// reachable by following dependencies backwards.
func (sn *Subnet) Upstream(transitionID string) []string {
	visited := map[string]bool{transitionID: true}
	queue := []string{transitionID}
	var result []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range sn.Dependencies {
			if dep.Target == current && !visited[dep.Source] {
				visited[dep.Source] = true
				result = append(result, dep.Source)
				queue = append(queue, dep.Source)
			}
		}
	}
	sort.Strings(result)
	return result
}

// ConnectedComponents partitions localities into connected groups of
// the place-sharing graph, each group given as indices into the input.
// Used for diagnostic messages when Build rejects disconnected input.
func ConnectedComponents(localities []*pathway.Locality) [][]int {
	n := len(localities)
	visited := make([]bool, n)
	var components [][]int

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		// BFS over the place-sharing adjacency.
		component := []int{start}
		visited[start] = true
		queue := []int{start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for other := 0; other < n; other++ {
				if visited[other] || !localities[current].SharesPlace(localities[other]) {
					continue
				}
				visited[other] = true
				component = append(component, other)
				queue = append(queue, other)
			}
		}
		sort.Ints(component)
		components = append(components, component)
	}
	return components
}
