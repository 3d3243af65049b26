package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/simao-eugenio/shypn-sub018/pathway"
)

// SchemaVersion tags persisted knowledge base documents.
const SchemaVersion = "1.0.0"

// Document is the persisted form of a knowledge base: one section per
// knowledge domain, suitable for save and reload alongside the model
// file.
type Document struct {
	Version string    `json:"version"`
	ModelID string    `json:"modelId"`
	SavedAt time.Time `json:"savedAt"`

	Places      []PlaceKnowledge      `json:"places"`
	Transitions []TransitionKnowledge `json:"transitions"`
	Arcs        []ArcKnowledge        `json:"arcs"`

	PInvariants []PInvariant      `json:"pInvariants,omitempty"`
	TInvariants []TInvariant      `json:"tInvariants,omitempty"`
	Siphons     []Siphon          `json:"siphons,omitempty"`
	Traps       []Trap            `json:"traps,omitempty"`
	Deadlocks   []DeadlockMarking `json:"deadlocks,omitempty"`

	Pathway   *Pathway   `json:"pathway,omitempty"`
	Compounds []Compound `json:"compounds,omitempty"`
	Reactions []Reaction `json:"reactions,omitempty"`

	Kinetics []KineticParameters `json:"kinetics,omitempty"`

	Traces  []SimulationTrace `json:"traces,omitempty"`
	Changes []Change          `json:"changes,omitempty"`
}

// Snapshot captures the full state of the base as a versioned document.
func (b *Base) Snapshot() *Document {
	doc := &Document{
		Version: SchemaVersion,
		ModelID: b.ModelID,
		SavedAt: time.Now().UTC(),
	}
	for _, id := range b.PlaceIDs() {
		pk, _ := b.Place(id)
		doc.Places = append(doc.Places, pk)
	}
	for _, id := range b.TransitionIDs() {
		tk, _ := b.Transition(id)
		doc.Transitions = append(doc.Transitions, tk)
	}
	for _, a := range b.net.Arcs {
		if ak, ok := b.Arc(a.ID); ok {
			doc.Arcs = append(doc.Arcs, ak)
		}
	}
	doc.PInvariants = b.PInvariants()
	doc.TInvariants = b.TInvariants()
	doc.Siphons = b.Siphons()
	doc.Traps = b.Traps()
	doc.Deadlocks = b.Deadlocks()
	if pw, ok := b.Pathway(); ok {
		doc.Pathway = &pw
	}
	for _, id := range sortedKeys(b.compounds) {
		doc.Compounds = append(doc.Compounds, b.compounds[id])
	}
	for _, id := range sortedKeys(b.reactions) {
		doc.Reactions = append(doc.Reactions, b.reactions[id])
	}
	for _, id := range sortedKeys(b.kinetics) {
		doc.Kinetics = append(doc.Kinetics, b.kinetics[id])
	}
	doc.Traces = b.Traces()
	doc.Changes = b.Changes()
	return doc
}

// Load restores the base from a document, replacing all current state.
// A version mismatch or malformed section is rejected before any state
// is replaced.
func (b *Base) Load(doc *Document) error {
	if doc == nil {
		return ErrNilRecord
	}
	if doc.Version != SchemaVersion {
		return fmt.Errorf("%w: %q", ErrSchemaVersion, doc.Version)
	}

	fresh := NewBase(doc.ModelID, b.net)
	fresh.inf = b.inf
	fresh.defaultRate = b.defaultRate
	fresh.stoichTolerance = b.stoichTolerance

	marking := make(pathway.Marking)
	liveness := make(map[string]int)
	bounds := make(map[string]int)
	placeCompound := make(map[string]string)
	transitionReaction := make(map[string]string)
	for _, pk := range doc.Places {
		marking[pk.ID] = pk.Tokens
		if pk.Bound != 0 {
			bounds[pk.ID] = pk.Bound
		}
		if pk.CompoundID != "" {
			placeCompound[pk.ID] = pk.CompoundID
		}
	}
	for _, tk := range doc.Transitions {
		liveness[tk.ID] = tk.LivenessLevel
		if tk.ReactionID != "" {
			transitionReaction[tk.ID] = tk.ReactionID
		}
	}

	steps := []func() error{
		func() error { return fresh.UpdateMarking(marking) },
		func() error { return fresh.UpdatePInvariants(doc.PInvariants) },
		func() error { return fresh.UpdateTInvariants(doc.TInvariants) },
		func() error { return fresh.UpdateSiphons(doc.Siphons) },
		func() error { return fresh.UpdateTraps(doc.Traps) },
		func() error { return fresh.UpdateDeadlocks(doc.Deadlocks) },
		func() error { return fresh.UpdateLiveness(liveness) },
		func() error { return fresh.UpdateBoundedness(bounds) },
		func() error { return fresh.UpdateCompounds(doc.Compounds) },
		func() error { return fresh.UpdateReactions(doc.Reactions) },
		func() error { return fresh.UpdateMappings(placeCompound, transitionReaction) },
		func() error { return fresh.UpdateKinetics(doc.Kinetics) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("knowledge: load document: %w", err)
		}
	}
	if doc.Pathway != nil {
		if err := fresh.UpdatePathway(*doc.Pathway); err != nil {
			return fmt.Errorf("knowledge: load document: %w", err)
		}
	}
	for _, tr := range doc.Traces {
		if err := fresh.UpdateTrace(tr); err != nil {
			return fmt.Errorf("knowledge: load document: %w", err)
		}
	}
	fresh.changes = append([]Change(nil), doc.Changes...)

	// All sections converted cleanly; adopt the rebuilt state.
	b.ModelID = fresh.ModelID
	b.places = fresh.places
	b.transitions = fresh.transitions
	b.arcs = fresh.arcs
	b.pInvariants = fresh.pInvariants
	b.tInvariants = fresh.tInvariants
	b.siphons = fresh.siphons
	b.traps = fresh.traps
	b.deadlocks = fresh.deadlocks
	b.pathway = fresh.pathway
	b.compounds = fresh.compounds
	b.reactions = fresh.reactions
	b.kinetics = fresh.kinetics
	b.traces = fresh.traces
	b.changes = fresh.changes
	return nil
}

// WriteJSON writes a document to a JSON file.
func WriteJSON(doc *Document, filename string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("knowledge: marshal document: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("knowledge: write file: %w", err)
	}
	return nil
}

// ReadJSON reads a document from a JSON file.
func ReadJSON(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("knowledge: read file: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("knowledge: unmarshal document: %w", err)
	}
	return &doc, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
