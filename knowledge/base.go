package knowledge

import (
	"fmt"
	"sort"

	"github.com/simao-eugenio/shypn-sub018/config"
	"github.com/simao-eugenio/shypn-sub018/pathway"
)

// Base is the knowledge base for one model. It owns all knowledge
// records for that model and nothing else; multiple open models get
// independent instances. Callers serialize access externally — the
// scheduling model is one active investigation at a time.
type Base struct {
	ModelID string

	net *pathway.Net

	places      map[string]*PlaceKnowledge
	transitions map[string]*TransitionKnowledge
	arcs        map[string]*ArcKnowledge

	pInvariants []PInvariant
	tInvariants []TInvariant
	siphons     []Siphon
	traps       []Trap
	deadlocks   []DeadlockMarking

	pathway   *Pathway
	compounds map[string]Compound
	reactions map[string]Reaction

	kinetics map[string]KineticParameters

	traces  []SimulationTrace
	changes []Change

	// Inference tuning, seeded from config.Default().
	inf             config.Inference
	defaultRate     float64
	stoichTolerance int
}

// NewBase creates a knowledge base for a model, seeding place,
// transition and arc records from the network structure.
func NewBase(modelID string, net *pathway.Net) *Base {
	def := config.Default()
	b := &Base{
		ModelID:         modelID,
		net:             net,
		places:          make(map[string]*PlaceKnowledge),
		transitions:     make(map[string]*TransitionKnowledge),
		arcs:            make(map[string]*ArcKnowledge),
		compounds:       make(map[string]Compound),
		reactions:       make(map[string]Reaction),
		kinetics:        make(map[string]KineticParameters),
		inf:             def.Inference,
		defaultRate:     def.Simulation.DefaultRate,
		stoichTolerance: def.Diagnosis.StoichiometryTolerance,
	}
	for id, p := range net.Places {
		b.places[id] = &PlaceKnowledge{ID: id, Name: p.Name, Tokens: p.Tokens}
	}
	for id, t := range net.Transitions {
		b.transitions[id] = &TransitionKnowledge{ID: id, Name: t.Name, LivenessLevel: -1}
	}
	for _, a := range net.Arcs {
		b.arcs[a.ID] = &ArcKnowledge{ID: a.ID, Source: a.Source, Target: a.Target, Weight: a.Weight}
	}
	return b
}

// Net returns the network the base was created over.
func (b *Base) Net() *pathway.Net {
	return b.net
}

// === Update hooks (write path) ===
//
// Each hook validates its whole input before touching any store, so a
// rejected call leaves the base exactly as it was.

// UpdateStructure re-syncs element records with a revised network,
// e.g. after repairs added source or sink transitions. Records for
// surviving elements keep their accumulated knowledge; new elements
// get fresh records and removed ones are dropped together with their
// mappings. Stored analysis results that reference a removed element
// are dropped too, so a snapshot taken afterwards always reloads.
func (b *Base) UpdateStructure(net *pathway.Net) error {
	if net == nil {
		return ErrNilRecord
	}
	if err := net.Validate(); err != nil {
		return err
	}

	places := make(map[string]*PlaceKnowledge, len(net.Places))
	for id, p := range net.Places {
		if existing, ok := b.places[id]; ok {
			places[id] = existing
			continue
		}
		places[id] = &PlaceKnowledge{ID: id, Name: p.Name, Tokens: p.Tokens}
	}
	transitions := make(map[string]*TransitionKnowledge, len(net.Transitions))
	for id, t := range net.Transitions {
		if existing, ok := b.transitions[id]; ok {
			transitions[id] = existing
			continue
		}
		transitions[id] = &TransitionKnowledge{ID: id, Name: t.Name, LivenessLevel: -1}
	}
	arcs := make(map[string]*ArcKnowledge, len(net.Arcs))
	for _, a := range net.Arcs {
		if existing, ok := b.arcs[a.ID]; ok {
			existing.Weight = a.Weight
			arcs[a.ID] = existing
			continue
		}
		arcs[a.ID] = &ArcKnowledge{ID: a.ID, Source: a.Source, Target: a.Target, Weight: a.Weight}
	}

	allPlaces := func(ids []string) bool {
		for _, id := range ids {
			if _, ok := net.Places[id]; !ok {
				return false
			}
		}
		return true
	}
	allTransitions := func(ids []string) bool {
		for _, id := range ids {
			if _, ok := net.Transitions[id]; !ok {
				return false
			}
		}
		return true
	}

	pInvariants := b.pInvariants[:0:0]
	for _, inv := range b.pInvariants {
		if allPlaces(inv.Places) {
			pInvariants = append(pInvariants, inv)
		}
	}
	tInvariants := b.tInvariants[:0:0]
	for _, inv := range b.tInvariants {
		if allTransitions(inv.Transitions) {
			tInvariants = append(tInvariants, inv)
		}
	}
	siphons := b.siphons[:0:0]
	for _, s := range b.siphons {
		if allPlaces(s.Places) {
			siphons = append(siphons, s)
		}
	}
	traps := b.traps[:0:0]
	for _, tr := range b.traps {
		if allPlaces(tr.Places) {
			traps = append(traps, tr)
		}
	}
	deadlocks := b.deadlocks[:0:0]
	for _, d := range b.deadlocks {
		if allPlaces(d.Marking.SortedKeys()) {
			deadlocks = append(deadlocks, d)
		}
	}
	kinetics := make(map[string]KineticParameters, len(b.kinetics))
	for tid, k := range b.kinetics {
		if _, ok := net.Transitions[tid]; ok {
			kinetics[tid] = k
		}
	}

	b.net = net
	b.places = places
	b.transitions = transitions
	b.arcs = arcs
	b.pInvariants = pInvariants
	b.tInvariants = tInvariants
	b.siphons = siphons
	b.traps = traps
	b.deadlocks = deadlocks
	b.kinetics = kinetics

	// Rebuild back-references so surviving records never point at a
	// dropped invariant or siphon.
	for _, pk := range places {
		pk.InvariantRefs = nil
		pk.SiphonRefs = nil
	}
	for _, inv := range pInvariants {
		for _, p := range inv.Places {
			places[p].InvariantRefs = append(places[p].InvariantRefs, inv.ID)
		}
	}
	for _, s := range siphons {
		for _, p := range s.Places {
			places[p].SiphonRefs = append(places[p].SiphonRefs, s.ID)
		}
	}
	return nil
}

// UpdateMarking replaces the current token counts for the named places.
func (b *Base) UpdateMarking(m pathway.Marking) error {
	for id, tokens := range m {
		if _, ok := b.places[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlace, id)
		}
		if tokens < 0 {
			return fmt.Errorf("%w: place %s has %d", ErrNegativeTokens, id, tokens)
		}
	}
	for id, tokens := range m {
		b.places[id].Tokens = tokens
	}
	return nil
}

// UpdatePInvariants replaces the stored P-invariant set and refreshes
// place membership references.
func (b *Base) UpdatePInvariants(invs []PInvariant) error {
	for _, inv := range invs {
		if inv.ID == "" {
			return ErrEmptyID
		}
		if len(inv.Places) != len(inv.Coefficients) {
			return fmt.Errorf("%w: invariant %s", ErrCoefficientShape, inv.ID)
		}
		for _, p := range inv.Places {
			if _, ok := b.places[p]; !ok {
				return fmt.Errorf("%w: invariant %s references %s", ErrUnknownPlace, inv.ID, p)
			}
		}
	}
	b.pInvariants = append(b.pInvariants[:0:0], invs...)
	for _, pk := range b.places {
		pk.InvariantRefs = nil
	}
	for _, inv := range invs {
		for _, p := range inv.Places {
			b.places[p].InvariantRefs = append(b.places[p].InvariantRefs, inv.ID)
		}
	}
	return nil
}

// UpdateTInvariants replaces the stored T-invariant set.
func (b *Base) UpdateTInvariants(invs []TInvariant) error {
	for _, inv := range invs {
		if inv.ID == "" {
			return ErrEmptyID
		}
		if len(inv.Transitions) != len(inv.Coefficients) {
			return fmt.Errorf("%w: invariant %s", ErrCoefficientShape, inv.ID)
		}
		for _, t := range inv.Transitions {
			if _, ok := b.transitions[t]; !ok {
				return fmt.Errorf("%w: invariant %s references %s", ErrUnknownTransition, inv.ID, t)
			}
		}
	}
	b.tInvariants = append(b.tInvariants[:0:0], invs...)
	return nil
}

// UpdateSiphons replaces the stored siphon set and refreshes place
// membership references.
func (b *Base) UpdateSiphons(siphons []Siphon) error {
	for _, s := range siphons {
		if s.ID == "" {
			return ErrEmptyID
		}
		for _, p := range s.Places {
			if _, ok := b.places[p]; !ok {
				return fmt.Errorf("%w: siphon %s references %s", ErrUnknownPlace, s.ID, p)
			}
		}
	}
	b.siphons = append(b.siphons[:0:0], siphons...)
	for _, pk := range b.places {
		pk.SiphonRefs = nil
	}
	for _, s := range siphons {
		for _, p := range s.Places {
			b.places[p].SiphonRefs = append(b.places[p].SiphonRefs, s.ID)
		}
	}
	return nil
}

// UpdateTraps replaces the stored trap set.
func (b *Base) UpdateTraps(traps []Trap) error {
	for _, tr := range traps {
		if tr.ID == "" {
			return ErrEmptyID
		}
		for _, p := range tr.Places {
			if _, ok := b.places[p]; !ok {
				return fmt.Errorf("%w: trap %s references %s", ErrUnknownPlace, tr.ID, p)
			}
		}
	}
	b.traps = append(b.traps[:0:0], traps...)
	return nil
}

// UpdateLiveness records per-transition liveness levels.
func (b *Base) UpdateLiveness(levels map[string]int) error {
	for t := range levels {
		if _, ok := b.transitions[t]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTransition, t)
		}
	}
	for t, lvl := range levels {
		b.transitions[t].LivenessLevel = lvl
	}
	return nil
}

// UpdateDeadlocks replaces the stored deadlock marking set.
func (b *Base) UpdateDeadlocks(marks []DeadlockMarking) error {
	for _, d := range marks {
		if d.ID == "" {
			return ErrEmptyID
		}
		for p := range d.Marking {
			if _, ok := b.places[p]; !ok {
				return fmt.Errorf("%w: deadlock %s references %s", ErrUnknownPlace, d.ID, p)
			}
		}
	}
	b.deadlocks = append(b.deadlocks[:0:0], marks...)
	return nil
}

// UpdateBoundedness records per-place boundedness bounds.
func (b *Base) UpdateBoundedness(bounds map[string]int) error {
	for p := range bounds {
		if _, ok := b.places[p]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlace, p)
		}
	}
	for p, bound := range bounds {
		b.places[p].Bound = bound
	}
	return nil
}

// UpdatePathway sets the pathway the model maps onto.
func (b *Base) UpdatePathway(pw Pathway) error {
	if pw.ID == "" {
		return ErrEmptyID
	}
	cp := pw
	b.pathway = &cp
	return nil
}

// UpdateCompounds merges compound records by identifier.
func (b *Base) UpdateCompounds(compounds []Compound) error {
	for _, c := range compounds {
		if c.ID == "" {
			return ErrEmptyID
		}
	}
	for _, c := range compounds {
		b.compounds[c.ID] = c
	}
	return nil
}

// UpdateReactions merges reaction records by identifier.
func (b *Base) UpdateReactions(reactions []Reaction) error {
	for _, r := range reactions {
		if r.ID == "" {
			return ErrEmptyID
		}
	}
	for _, r := range reactions {
		b.reactions[r.ID] = r
	}
	return nil
}

// UpdateMappings links places to compounds and transitions to
// reactions. Either map may be nil.
func (b *Base) UpdateMappings(placeCompound map[string]string, transitionReaction map[string]string) error {
	for p := range placeCompound {
		if _, ok := b.places[p]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlace, p)
		}
	}
	for t := range transitionReaction {
		if _, ok := b.transitions[t]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTransition, t)
		}
	}
	for p, c := range placeCompound {
		b.places[p].CompoundID = c
	}
	for t, r := range transitionReaction {
		b.transitions[t].ReactionID = r
	}
	return nil
}

// UpdateKinetics merges per-transition kinetic parameters.
func (b *Base) UpdateKinetics(params []KineticParameters) error {
	for _, k := range params {
		if _, ok := b.transitions[k.TransitionID]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTransition, k.TransitionID)
		}
		if k.Provenance.Confidence < 0 || k.Provenance.Confidence > 1 {
			return fmt.Errorf("%w: transition %s has %v", ErrBadConfidence, k.TransitionID, k.Provenance.Confidence)
		}
	}
	for _, k := range params {
		b.kinetics[k.TransitionID] = k
		kc := k
		b.transitions[k.TransitionID].Kinetics = &kc
	}
	return nil
}

// UpdateTrace appends a simulation trace to the history.
func (b *Base) UpdateTrace(tr SimulationTrace) error {
	if tr.ID == "" {
		return ErrEmptyID
	}
	if len(tr.Samples) == 0 {
		return fmt.Errorf("%w: trace %s", ErrEmptyTrace, tr.ID)
	}
	b.traces = append(b.traces, tr)
	return nil
}

// RecordChange promotes an applied fix into the permanent record.
func (b *Base) RecordChange(c Change) {
	b.changes = append(b.changes, c)
}

// === Query methods (read path) ===
//
// Queries return copies; absence is (zero, false) or an empty slice,
// never an error, since incremental population is the normal state.

// Place returns the knowledge record for one place.
func (b *Base) Place(id string) (PlaceKnowledge, bool) {
	pk, ok := b.places[id]
	if !ok {
		return PlaceKnowledge{}, false
	}
	cp := *pk
	cp.InvariantRefs = append([]string(nil), pk.InvariantRefs...)
	cp.SiphonRefs = append([]string(nil), pk.SiphonRefs...)
	return cp, true
}

// Transition returns the knowledge record for one transition.
func (b *Base) Transition(id string) (TransitionKnowledge, bool) {
	tk, ok := b.transitions[id]
	if !ok {
		return TransitionKnowledge{}, false
	}
	cp := *tk
	if tk.Kinetics != nil {
		kc := *tk.Kinetics
		cp.Kinetics = &kc
	}
	return cp, true
}

// Arc returns the knowledge record for one arc.
func (b *Base) Arc(id string) (ArcKnowledge, bool) {
	ak, ok := b.arcs[id]
	if !ok {
		return ArcKnowledge{}, false
	}
	return *ak, true
}

// Marking returns the current token counts for all places.
func (b *Base) Marking() pathway.Marking {
	m := make(pathway.Marking, len(b.places))
	for id, pk := range b.places {
		m[id] = pk.Tokens
	}
	return m
}

// PInvariants returns all stored P-invariants.
func (b *Base) PInvariants() []PInvariant {
	return append([]PInvariant(nil), b.pInvariants...)
}

// PInvariantsOf returns the P-invariants that include the given place.
func (b *Base) PInvariantsOf(placeID string) []PInvariant {
	var result []PInvariant
	for _, inv := range b.pInvariants {
		if inv.Coefficient(placeID) != 0 {
			result = append(result, inv)
		}
	}
	return result
}

// TInvariants returns all stored T-invariants.
func (b *Base) TInvariants() []TInvariant {
	return append([]TInvariant(nil), b.tInvariants...)
}

// Siphons returns all stored siphons.
func (b *Base) Siphons() []Siphon {
	return append([]Siphon(nil), b.siphons...)
}

// Traps returns all stored traps.
func (b *Base) Traps() []Trap {
	return append([]Trap(nil), b.traps...)
}

// Deadlocks returns all stored deadlock markings.
func (b *Base) Deadlocks() []DeadlockMarking {
	return append([]DeadlockMarking(nil), b.deadlocks...)
}

// Pathway returns the mapped pathway record.
func (b *Base) Pathway() (Pathway, bool) {
	if b.pathway == nil {
		return Pathway{}, false
	}
	return *b.pathway, true
}

// Compound returns one compound record.
func (b *Base) Compound(id string) (Compound, bool) {
	c, ok := b.compounds[id]
	return c, ok
}

// CompoundOf resolves the compound mapped to a place.
func (b *Base) CompoundOf(placeID string) (Compound, bool) {
	pk, ok := b.places[placeID]
	if !ok || pk.CompoundID == "" {
		return Compound{}, false
	}
	return b.Compound(pk.CompoundID)
}

// Reaction returns one reaction record.
func (b *Base) Reaction(id string) (Reaction, bool) {
	r, ok := b.reactions[id]
	return r, ok
}

// ReactionOf resolves the reaction mapped to a transition.
func (b *Base) ReactionOf(transitionID string) (Reaction, bool) {
	tk, ok := b.transitions[transitionID]
	if !ok || tk.ReactionID == "" {
		return Reaction{}, false
	}
	return b.Reaction(tk.ReactionID)
}

// Kinetics returns kinetic parameters for one transition.
func (b *Base) Kinetics(transitionID string) (KineticParameters, bool) {
	k, ok := b.kinetics[transitionID]
	return k, ok
}

// LatestTrace returns the most recently recorded simulation trace.
func (b *Base) LatestTrace() (SimulationTrace, bool) {
	if len(b.traces) == 0 {
		return SimulationTrace{}, false
	}
	return b.traces[len(b.traces)-1], true
}

// Traces returns the full trace history.
func (b *Base) Traces() []SimulationTrace {
	return append([]SimulationTrace(nil), b.traces...)
}

// Changes returns the applied-change history.
func (b *Base) Changes() []Change {
	return append([]Change(nil), b.changes...)
}

// PlaceIDs returns all known place identifiers in sorted order.
func (b *Base) PlaceIDs() []string {
	ids := make([]string, 0, len(b.places))
	for id := range b.places {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TransitionIDs returns all known transition identifiers in sorted order.
func (b *Base) TransitionIDs() []string {
	ids := make([]string, 0, len(b.transitions))
	for id := range b.transitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
