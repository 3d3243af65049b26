package diagnosis

import (
	"testing"

	"github.com/simao-eugenio/shypn-sub018/knowledge"
	"github.com/simao-eugenio/shypn-sub018/pathway"
)

// Arc weight 1 against declared stoichiometry 2 must produce a
// structural error and a set-weight suggestion at high confidence.
func TestStoichiometryMismatch(t *testing.T) {
	e, kb := chainEngine(t)
	if err := kb.UpdateCompounds([]knowledge.Compound{{ID: "C1", Name: "ATP"}}); err != nil {
		t.Fatal(err)
	}
	if err := kb.UpdateReactions([]knowledge.Reaction{{
		ID:         "R1",
		Substrates: []knowledge.Stoichiometry{{CompoundID: "C1", Coefficient: 2}},
	}}); err != nil {
		t.Fatal(err)
	}
	if err := kb.UpdateMappings(map[string]string{"P1": "C1"}, map[string]string{"T1": "R1"}); err != nil {
		t.Fatal(err)
	}

	report, err := e.InvestigateLocality("T1")
	if err != nil {
		t.Fatal(err)
	}

	structural := report.IssuesByCategory(CategoryStructural)
	foundMismatch := false
	for _, issue := range structural {
		if issue.Severity == SeverityError {
			foundMismatch = true
		}
	}
	if !foundMismatch {
		t.Errorf("expected a structural error for the weight mismatch, issues = %+v", structural)
	}

	var setWeight *Suggestion
	for i := range report.Suggestions {
		if report.Suggestions[i].Action == ActionSetWeight {
			setWeight = &report.Suggestions[i]
		}
	}
	if setWeight == nil {
		t.Fatal("expected a set-weight suggestion")
	}
	if setWeight.Value != 2 {
		t.Errorf("suggested weight = %v, want 2", setWeight.Value)
	}
	if setWeight.Confidence < 0.85 {
		t.Errorf("confidence = %v, want >= 0.85", setWeight.Confidence)
	}
	if setWeight.TargetID != pathway.ArcID("P1", "T1") {
		t.Errorf("target = %s", setWeight.TargetID)
	}
}

func TestSourceAndSinkTransitions(t *testing.T) {
	net := pathway.Build().
		Place("P1", 1).
		Transition("Tsource").
		Transition("Tsink").
		Arc("Tsource", "P1", 1).
		Arc("P1", "Tsink", 1).
		Done()
	kb := knowledge.NewBase("m", net)
	e := NewEngine(kb, nil)

	report, err := e.InvestigateLocality("Tsource")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.IssuesByCategory(CategoryStructural)) == 0 {
		t.Error("a transition without inputs must raise a structural issue")
	}

	report, err = e.InvestigateLocality("Tsink")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.IssuesByCategory(CategoryStructural)) == 0 {
		t.Error("a transition without outputs must raise a structural issue")
	}
}

func TestBiologicalMappingGap(t *testing.T) {
	e, kb := chainEngine(t)
	if err := kb.UpdateCompounds([]knowledge.Compound{{ID: "C1", Name: "Glucose"}}); err != nil {
		t.Fatal(err)
	}
	// P1 mapped, P2 not, T1 unmapped.
	if err := kb.UpdateMappings(map[string]string{"P1": "C1"}, nil); err != nil {
		t.Fatal(err)
	}

	report, err := e.InvestigateLocality("T1")
	if err != nil {
		t.Fatal(err)
	}
	biological := report.IssuesByCategory(CategoryBiological)
	if len(biological) != 2 {
		t.Errorf("biological issues = %+v, want unmapped transition + unmapped place", biological)
	}
}

func TestNeverFiredTransition(t *testing.T) {
	e, kb := chainEngine(t)
	// A trace where T2 never fires and its input P2 stays empty.
	trace := knowledge.SimulationTrace{
		ID: "run1",
		Samples: []knowledge.TraceSample{
			{Time: 0, Marking: pathway.Marking{"P1": 5, "P2": 0, "P3": 0}},
			{Time: 2, Marking: pathway.Marking{"P1": 5, "P2": 0, "P3": 0}},
		},
		Firings:  map[string]int{"T1": 0, "T2": 0},
		Duration: 2,
		Steps:    0,
	}
	if err := kb.UpdateTrace(trace); err != nil {
		t.Fatal(err)
	}
	// Give P2 a basal concentration so a set-marking suggestion exists.
	if err := kb.UpdateCompounds([]knowledge.Compound{{ID: "C2", Basal: &knowledge.BasalRange{Low: 3, High: 3}}}); err != nil {
		t.Fatal(err)
	}
	if err := kb.UpdateMappings(map[string]string{"P2": "C2"}, nil); err != nil {
		t.Fatal(err)
	}

	report, err := e.InvestigateLocality("T2")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.IssuesByCategory(CategoryKinetic)) == 0 {
		t.Error("a never-fired transition must raise a kinetic issue")
	}
	foundMarking := false
	for _, s := range report.Suggestions {
		if s.Action == ActionSetMarking && s.TargetID == "P2" && s.Value == 3 {
			foundMarking = true
		}
	}
	if !foundMarking {
		t.Errorf("expected a set-marking suggestion for P2, got %+v", report.Suggestions)
	}
}

func TestSlowFiringTransition(t *testing.T) {
	e, kb := chainEngine(t)
	trace := knowledge.SimulationTrace{
		ID: "run1",
		Samples: []knowledge.TraceSample{
			{Time: 0, Marking: pathway.Marking{"P1": 5, "P2": 0, "P3": 0}},
			{Time: 100, Marking: pathway.Marking{"P1": 4, "P2": 1, "P3": 0}},
		},
		Firings:  map[string]int{"T1": 1},
		Duration: 100,
		Steps:    1,
	}
	if err := kb.UpdateTrace(trace); err != nil {
		t.Fatal(err)
	}
	if err := kb.UpdateKinetics([]knowledge.KineticParameters{{
		TransitionID: "T1", MaxRate: 10.0,
		Provenance: knowledge.Provenance{Source: "brenda", Confidence: 0.9},
	}}); err != nil {
		t.Fatal(err)
	}

	report, err := e.InvestigateLocality("T1")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.IssuesByCategory(CategoryKinetic)) == 0 {
		t.Error("firing far below kinetic maximum must raise a kinetic issue")
	}
	foundRate := false
	for _, s := range report.Suggestions {
		if s.Action == ActionSetRate && s.TargetID == "T1" && s.Value == 10.0 {
			foundRate = true
		}
	}
	if !foundRate {
		t.Errorf("expected a set-rate suggestion for T1, got %+v", report.Suggestions)
	}
}
