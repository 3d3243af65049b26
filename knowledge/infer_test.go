package knowledge

import (
	"strings"
	"testing"

	"github.com/simao-eugenio/shypn-sub018/pathway"
)

func TestInferInitialMarkingFromBasal(t *testing.T) {
	b := testBase(t)
	basal := &BasalRange{Low: 5.0, High: 5.0}
	if err := b.UpdateCompounds([]Compound{{ID: "C1", Name: "Glucose", Basal: basal}}); err != nil {
		t.Fatal(err)
	}
	if err := b.UpdateMappings(map[string]string{"P2": "C1"}, nil); err != nil {
		t.Fatal(err)
	}

	inf, ok := b.InferInitialMarking("P2")
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if inf.Value != 5 {
		t.Errorf("value = %v, want 5", inf.Value)
	}
	if inf.Confidence < 0.7 {
		t.Errorf("confidence = %v, want >= 0.7", inf.Confidence)
	}
	found := false
	for _, r := range inf.Reasoning {
		if strings.Contains(r, "basal") {
			found = true
		}
	}
	if !found {
		t.Errorf("reasoning must mention the basal concentration: %v", inf.Reasoning)
	}
}

func TestInferInitialMarkingFromInvariant(t *testing.T) {
	b := testBase(t)
	// P1 + P2 + P3 = 5 with P1=5, P3=0 known gives P2 = 0;
	// set P1=3 first so the back-solve yields 2.
	if err := b.UpdateMarking(pathway.Marking{"P1": 3}); err != nil {
		t.Fatal(err)
	}
	inv := PInvariant{ID: "inv1", Places: []string{"P1", "P2", "P3"}, Coefficients: []int{1, 1, 1}, Constant: 5}
	if err := b.UpdatePInvariants([]PInvariant{inv}); err != nil {
		t.Fatal(err)
	}

	inf, ok := b.InferInitialMarking("P2")
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if inf.Value != 2 {
		t.Errorf("value = %v, want 2", inf.Value)
	}
	if inf.Confidence < 0.5 || inf.Confidence >= 0.7 {
		t.Errorf("confidence = %v, want about 0.6", inf.Confidence)
	}
}

func TestInferInitialMarkingNoData(t *testing.T) {
	b := testBase(t)
	if _, ok := b.InferInitialMarking("P2"); ok {
		t.Error("no basal and no invariant: expected no suggestion")
	}
	if _, ok := b.InferInitialMarking("missing"); ok {
		t.Error("unknown place: expected no suggestion")
	}
}

func TestInferArcWeightStoichiometryMismatch(t *testing.T) {
	b := testBase(t)
	if err := b.UpdateCompounds([]Compound{{ID: "C1", Name: "ATP"}}); err != nil {
		t.Fatal(err)
	}
	if err := b.UpdateReactions([]Reaction{{
		ID:         "R1",
		Substrates: []Stoichiometry{{CompoundID: "C1", Coefficient: 2}},
	}}); err != nil {
		t.Fatal(err)
	}
	if err := b.UpdateMappings(map[string]string{"P1": "C1"}, map[string]string{"T1": "R1"}); err != nil {
		t.Fatal(err)
	}

	inf, ok := b.InferArcWeight(pathway.ArcID("P1", "T1"))
	if !ok {
		t.Fatal("expected a suggestion")
	}
	if inf.Value != 2 {
		t.Errorf("value = %v, want 2 (declared stoichiometry)", inf.Value)
	}
	if inf.Confidence < 0.85 {
		t.Errorf("confidence = %v, want >= 0.85", inf.Confidence)
	}
	if !inf.Mismatch {
		t.Error("weight 1 vs stoichiometry 2 must flag a mismatch")
	}
}

func TestInferArcWeightFallback(t *testing.T) {
	b := testBase(t)
	inf, ok := b.InferArcWeight(pathway.ArcID("P1", "T1"))
	if !ok {
		t.Fatal("expected a fallback suggestion")
	}
	if inf.Value != 1 || inf.Mismatch {
		t.Errorf("fallback = %+v, want current weight without mismatch", inf)
	}
	if inf.Confidence > 0.5 {
		t.Errorf("fallback confidence = %v, want low", inf.Confidence)
	}
}

func TestInferFiringRate(t *testing.T) {
	b := testBase(t)
	k := KineticParameters{TransitionID: "T1", MaxRate: 3.5, Provenance: Provenance{Source: "brenda", Confidence: 1.0}}
	if err := b.UpdateKinetics([]KineticParameters{k}); err != nil {
		t.Fatal(err)
	}

	inf := b.InferFiringRate("T1")
	if inf.Value != 3.5 {
		t.Errorf("value = %v, want 3.5", inf.Value)
	}
	if inf.Confidence < 0.7 || inf.Confidence > 0.9 {
		t.Errorf("confidence = %v, want in [0.7, 0.9]", inf.Confidence)
	}

	fallback := b.InferFiringRate("T2")
	if fallback.Value != 1.0 {
		t.Errorf("fallback rate = %v, want default 1.0", fallback.Value)
	}
	if fallback.Confidence > 0.3 {
		t.Errorf("fallback confidence = %v, want about 0.2", fallback.Confidence)
	}
}

func TestSuggestSourcePlacement(t *testing.T) {
	b := testBase(t)
	// P2 and P3 are empty; declare them a siphon.
	if err := b.UpdateSiphons([]Siphon{
		{ID: "s1", Places: []string{"P2", "P3"}, Minimal: true},
		{ID: "s2", Places: []string{"P1"}, Minimal: true}, // holds tokens
	}); err != nil {
		t.Fatal(err)
	}
	if err := b.UpdateCompounds([]Compound{{ID: "C1", Basal: &BasalRange{Low: 2, High: 4}}}); err != nil {
		t.Fatal(err)
	}
	if err := b.UpdateMappings(map[string]string{"P3": "C1"}, nil); err != nil {
		t.Fatal(err)
	}

	placements := b.SuggestSourcePlacement()
	if len(placements) != 1 {
		t.Fatalf("placements = %v, want exactly the empty siphon", placements)
	}
	got := placements[0]
	if got.SiphonID != "s1" {
		t.Errorf("siphon = %s", got.SiphonID)
	}
	if got.PlaceID != "P3" {
		t.Errorf("place = %s, want P3 (known basal concentration)", got.PlaceID)
	}
}
