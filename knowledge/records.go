// Package knowledge aggregates structural, biological, kinetic and
// dynamic facts about one token-flow network into a queryable base.
// External analyzers write through the Update hooks; the diagnosis
// engine reads through the query and inference methods. One Base exists
// per loaded model and instances share no state.
package knowledge

import (
	"time"

	"github.com/simao-eugenio/shypn-sub018/pathway"
)

// PlaceKnowledge collects everything known about one place.
type PlaceKnowledge struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Tokens int    `json:"tokens"`

	// Membership in structural invariants, by record ID.
	InvariantRefs []string `json:"invariantRefs,omitempty"`
	SiphonRefs    []string `json:"siphonRefs,omitempty"`

	// Biological mapping, empty when unmapped.
	CompoundID string `json:"compoundId,omitempty"`

	// Boundedness bound from structural analysis; 0 means unknown,
	// negative means unbounded.
	Bound int `json:"bound,omitempty"`
}

// TransitionKnowledge collects everything known about one transition.
type TransitionKnowledge struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Biological mapping, empty when unmapped.
	ReactionID string `json:"reactionId,omitempty"`

	// Liveness level from structural analysis (0 = dead .. 4 = live);
	// -1 means not analyzed.
	LivenessLevel int `json:"livenessLevel"`

	Kinetics *KineticParameters `json:"kinetics,omitempty"`
}

// ArcKnowledge mirrors one arc of the network.
type ArcKnowledge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// PInvariant is a weighted place set whose token sum is conserved
// across all reachable markings.
type PInvariant struct {
	ID string `json:"id"`
	// Places fixes the coefficient ordering.
	Places       []string `json:"places"`
	Coefficients []int    `json:"coefficients"`
	// Constant is the conserved weighted sum under the initial marking.
	Constant int `json:"constant"`
}

// Coefficient returns the coefficient for a place, 0 when the place is
// not a member.
func (inv *PInvariant) Coefficient(placeID string) int {
	for i, p := range inv.Places {
		if p == placeID {
			return inv.Coefficients[i]
		}
	}
	return 0
}

// WeightedSum evaluates the invariant under a marking.
func (inv *PInvariant) WeightedSum(m pathway.Marking) int {
	sum := 0
	for i, p := range inv.Places {
		sum += inv.Coefficients[i] * m.Get(p)
	}
	return sum
}

// TInvariant is a transition firing-count vector that returns the net
// to its starting marking.
type TInvariant struct {
	ID           string   `json:"id"`
	Transitions  []string `json:"transitions"`
	Coefficients []int    `json:"coefficients"`
}

// Siphon is a place set that, once empty, cannot regain tokens under
// the current arc structure.
type Siphon struct {
	ID      string   `json:"id"`
	Places  []string `json:"places"`
	Minimal bool     `json:"minimal"`
}

// Trap is the dual of a siphon: once marked, it stays marked.
type Trap struct {
	ID      string   `json:"id"`
	Places  []string `json:"places"`
	Minimal bool     `json:"minimal"`
}

// DeadlockMarking is a reachable marking with no enabled transitions,
// reported by structural analysis.
type DeadlockMarking struct {
	ID      string          `json:"id"`
	Marking pathway.Marking `json:"marking"`
}

// Pathway identifies the biological pathway the model maps onto.
type Pathway struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Organism string `json:"organism,omitempty"`
}

// BasalRange is an externally sourced physiological concentration range.
type BasalRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Mid returns the midpoint of the range.
func (b BasalRange) Mid() float64 {
	return (b.Low + b.High) / 2
}

// Compound is an externally sourced metabolite record.
type Compound struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Formula string      `json:"formula,omitempty"`
	Basal   *BasalRange `json:"basal,omitempty"`
}

// Stoichiometry pairs a compound with its coefficient in a reaction.
type Stoichiometry struct {
	CompoundID  string `json:"compoundId"`
	Coefficient int    `json:"coefficient"`
}

// Reaction is an externally sourced reaction record.
type Reaction struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	EC         string          `json:"ec,omitempty"`
	Substrates []Stoichiometry `json:"substrates"`
	Products   []Stoichiometry `json:"products"`
}

// Provenance tags where a kinetic value came from and how much it is
// trusted.
type Provenance struct {
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// KineticParameters are per-transition kinetic constants. Read-only
// input to inference.
type KineticParameters struct {
	TransitionID      string     `json:"transitionId"`
	SubstrateAffinity float64    `json:"substrateAffinity"`
	MaxRate           float64    `json:"maxRate"`
	Provenance        Provenance `json:"provenance"`
}

// TraceSample is one (time, marking) point of a simulation trajectory.
type TraceSample struct {
	Time    float64         `json:"time"`
	Marking pathway.Marking `json:"marking"`
	// Fired names the transition whose firing produced this sample.
	// Empty for the initial sample.
	Fired string `json:"fired,omitempty"`
}

// SimulationTrace is an ordered trajectory plus per-transition firing
// counts, produced by the simulator.
type SimulationTrace struct {
	ID       string         `json:"id"`
	Samples  []TraceSample  `json:"samples"`
	Firings  map[string]int `json:"firings"`
	Duration float64        `json:"duration"`
	Steps    int            `json:"steps"`
}

// Initial returns the first sampled marking, nil for an empty trace.
func (tr *SimulationTrace) Initial() pathway.Marking {
	if len(tr.Samples) == 0 {
		return nil
	}
	return tr.Samples[0].Marking
}

// Final returns the last sampled marking, nil for an empty trace.
func (tr *SimulationTrace) Final() pathway.Marking {
	if len(tr.Samples) == 0 {
		return nil
	}
	return tr.Samples[len(tr.Samples)-1].Marking
}

// Change records an applied fix: a promoted Suggestion with the value
// it replaced, retained for undo.
type Change struct {
	ID       string    `json:"id"`
	Action   string    `json:"action"`
	TargetID string    `json:"targetId"`
	Previous float64   `json:"previous"`
	Applied  float64   `json:"applied"`
	At       time.Time `json:"at"`
}
