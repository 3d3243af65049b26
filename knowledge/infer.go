package knowledge

import (
	"fmt"
	"math"
	"sort"

	"github.com/simao-eugenio/shypn-sub018/config"
)

// Inference is a proposed parameter value with the confidence and the
// reasoning trail that produced it. Reasoning lists which knowledge
// sources contributed, in order of use.
type Inference struct {
	Value      float64
	Confidence float64
	Reasoning  []string
	// Mismatch is set when the inferred value disagrees with the value
	// currently in the model beyond tolerance.
	Mismatch bool
}

// SourcePlacement proposes adding a controlled source at a siphon
// member place to guard against permanent depletion.
type SourcePlacement struct {
	SiphonID   string
	PlaceID    string
	Confidence float64
	Reasoning  []string
}

// SetConfig overrides the inference confidence floors. NewBase starts
// from config.Default().
func (b *Base) SetConfig(cfg *config.Config) {
	if cfg != nil {
		b.inf = cfg.Inference
		b.defaultRate = cfg.Simulation.DefaultRate
		b.stoichTolerance = cfg.Diagnosis.StoichiometryTolerance
	}
}

// InferInitialMarking proposes a token count for a place. Preference
// order: externally supplied basal concentration through the compound
// mapping, then back-solving a P-invariant whose other members hold
// known markings. Returns false when neither source applies.
func (b *Base) InferInitialMarking(placeID string) (Inference, bool) {
	if _, ok := b.places[placeID]; !ok {
		return Inference{}, false
	}

	if compound, ok := b.CompoundOf(placeID); ok && compound.Basal != nil {
		tokens := math.Round(compound.Basal.Mid())
		return Inference{
			Value:      tokens,
			Confidence: b.inf.BasalConfidence,
			Reasoning: []string{
				fmt.Sprintf("place %s maps to compound %s (%s)", placeID, compound.ID, compound.Name),
				fmt.Sprintf("basal concentration range %.2f-%.2f gives %d tokens", compound.Basal.Low, compound.Basal.High, int(tokens)),
			},
		}, true
	}

	for _, inv := range b.PInvariantsOf(placeID) {
		coeff := inv.Coefficient(placeID)
		if coeff == 0 {
			continue
		}
		known := 0
		solvable := true
		for i, p := range inv.Places {
			if p == placeID {
				continue
			}
			member, ok := b.places[p]
			if !ok {
				solvable = false
				break
			}
			known += inv.Coefficients[i] * member.Tokens
		}
		if !solvable {
			continue
		}
		remainder := inv.Constant - known
		if remainder < 0 || remainder%coeff != 0 {
			continue
		}
		return Inference{
			Value:      float64(remainder / coeff),
			Confidence: b.inf.InvariantConfidence,
			Reasoning: []string{
				fmt.Sprintf("place %s participates in P-invariant %s with coefficient %d", placeID, inv.ID, coeff),
				fmt.Sprintf("back-solved invariant constant %d against %d known weighted tokens", inv.Constant, known),
			},
		}, true
	}

	return Inference{}, false
}

// InferArcWeight proposes a weight for an arc. Declared reaction
// stoichiometry wins over the arc's current weight; a disagreement
// beyond the configured tolerance sets the Mismatch flag.
func (b *Base) InferArcWeight(arcID string) (Inference, bool) {
	arc, ok := b.arcs[arcID]
	if !ok {
		return Inference{}, false
	}

	if stoich, reaction, ok := b.stoichiometryFor(arc); ok {
		diff := stoich - arc.Weight
		if diff < 0 {
			diff = -diff
		}
		return Inference{
			Value:      float64(stoich),
			Confidence: b.inf.StoichiometryConfidence,
			Mismatch:   diff > b.stoichTolerance,
			Reasoning: []string{
				fmt.Sprintf("arc %s carries compound with declared stoichiometry %d in reaction %s", arcID, stoich, reaction),
				fmt.Sprintf("current arc weight is %d", arc.Weight),
			},
		}, true
	}

	return Inference{
		Value:      float64(arc.Weight),
		Confidence: b.inf.FallbackConfidence,
		Reasoning:  []string{fmt.Sprintf("no reaction stoichiometry known for arc %s, keeping current weight %d", arcID, arc.Weight)},
	}, true
}

// stoichiometryFor resolves the declared coefficient for the compound
// flowing on an arc, through the transition's reaction mapping and the
// place's compound mapping.
func (b *Base) stoichiometryFor(arc *ArcKnowledge) (int, string, bool) {
	var placeID, transitionID string
	var substrateSide bool
	if _, ok := b.places[arc.Source]; ok {
		placeID, transitionID = arc.Source, arc.Target
		substrateSide = true
	} else {
		placeID, transitionID = arc.Target, arc.Source
	}

	reaction, ok := b.ReactionOf(transitionID)
	if !ok {
		return 0, "", false
	}
	pk, ok := b.places[placeID]
	if !ok || pk.CompoundID == "" {
		return 0, "", false
	}

	side := reaction.Products
	if substrateSide {
		side = reaction.Substrates
	}
	for _, s := range side {
		if s.CompoundID == pk.CompoundID {
			return s.Coefficient, reaction.ID, true
		}
	}
	return 0, "", false
}

// InferFiringRate proposes a firing rate for a transition. A known
// maximum-rate kinetic parameter wins, with confidence scaled by its
// provenance; otherwise a default mass-action rate with low confidence.
func (b *Base) InferFiringRate(transitionID string) Inference {
	if k, ok := b.kinetics[transitionID]; ok && k.MaxRate > 0 {
		span := b.inf.KineticConfidenceMax - b.inf.KineticConfidenceMin
		conf := b.inf.KineticConfidenceMin + span*k.Provenance.Confidence
		return Inference{
			Value:      k.MaxRate,
			Confidence: conf,
			Reasoning: []string{
				fmt.Sprintf("kinetic maximum rate %.3f for transition %s", k.MaxRate, transitionID),
				fmt.Sprintf("provenance %s (confidence %.2f)", k.Provenance.Source, k.Provenance.Confidence),
			},
		}
	}
	return Inference{
		Value:      b.defaultRate,
		Confidence: b.inf.FallbackConfidence,
		Reasoning:  []string{fmt.Sprintf("no kinetic data for transition %s, default mass-action rate %.1f", transitionID, b.defaultRate)},
	}
}

// SuggestSourcePlacement scans siphons that hold no tokens under the
// present marking and proposes a controlled source at one member place
// of each, preferring a place with a known basal concentration.
func (b *Base) SuggestSourcePlacement() []SourcePlacement {
	var result []SourcePlacement
	for _, s := range b.siphons {
		empty := true
		for _, p := range s.Places {
			if pk, ok := b.places[p]; ok && pk.Tokens > 0 {
				empty = false
				break
			}
		}
		if !empty || len(s.Places) == 0 {
			continue
		}

		members := append([]string(nil), s.Places...)
		sort.Strings(members)
		target := members[0]
		reasoning := []string{fmt.Sprintf("siphon %s holds no tokens and cannot regain them", s.ID)}
		conf := 0.5
		for _, p := range members {
			if c, ok := b.CompoundOf(p); ok && c.Basal != nil {
				target = p
				conf = b.inf.BasalConfidence
				reasoning = append(reasoning, fmt.Sprintf("place %s has known basal concentration via compound %s", p, c.ID))
				break
			}
		}
		result = append(result, SourcePlacement{
			SiphonID:   s.ID,
			PlaceID:    target,
			Confidence: conf,
			Reasoning:  append(reasoning, fmt.Sprintf("propose controlled source at place %s", target)),
		})
	}
	return result
}
