package diagnosis

import (
	"errors"
	"testing"

	"github.com/simao-eugenio/shypn-sub018/knowledge"
	"github.com/simao-eugenio/shypn-sub018/pathway"
	"github.com/simao-eugenio/shypn-sub018/subnet"
)

// chainNet builds P1(5) -> T1 -> P2 -> T2 -> P3 plus an unrelated
// P4 -> T3 -> P5 pair.
func chainNet() *pathway.Net {
	return pathway.Build().
		Place("P1", 5).
		Place("P2", 0).
		Place("P3", 0).
		Place("P4", 1).
		Place("P5", 0).
		Transition("T1").
		Transition("T2").
		Transition("T3").
		Arc("P1", "T1", 1).
		Arc("T1", "P2", 1).
		Arc("P2", "T2", 1).
		Arc("T2", "P3", 1).
		Arc("P4", "T3", 1).
		Arc("T3", "P5", 1).
		Done()
}

func chainEngine(t *testing.T) (*Engine, *knowledge.Base) {
	t.Helper()
	kb := knowledge.NewBase("m", chainNet())
	return NewEngine(kb, nil), kb
}

func TestInvestigateLocalityUnknownTransition(t *testing.T) {
	e, _ := chainEngine(t)
	if _, err := e.InvestigateLocality("missing"); !errors.Is(err, pathway.ErrUnknownTransition) {
		t.Errorf("err = %v, want ErrUnknownTransition", err)
	}
}

func TestInvestigateSubnetRejectsDisconnected(t *testing.T) {
	e, _ := chainEngine(t)
	if _, err := e.InvestigateSubnet([]string{"T1", "T3"}); !errors.Is(err, subnet.ErrDisconnected) {
		t.Errorf("err = %v, want ErrDisconnected", err)
	}
}

func TestInvestigateSubnetReportsDependencies(t *testing.T) {
	e, _ := chainEngine(t)
	report, err := e.InvestigateSubnet([]string{"T1", "T2"})
	if err != nil {
		t.Fatalf("investigate: %v", err)
	}
	if len(report.Dependencies) != 1 || report.Dependencies[0].Source != "T1" || report.Dependencies[0].Target != "T2" {
		t.Errorf("dependencies = %v", report.Dependencies)
	}
	if report.Boundary == nil || report.Conservation == nil {
		t.Error("subnet report must carry boundary and conservation summaries")
	}
}

func TestRankedSuggestions(t *testing.T) {
	report := &Report{Suggestions: []Suggestion{
		{ID: "a", Confidence: 0.9, Priority: PriorityNormal},
		{ID: "b", Confidence: 0.4, Priority: PriorityCritical},
		{ID: "c", Confidence: 0.7, Priority: PriorityNormal},
	}}
	ranked := report.RankedSuggestions()
	if ranked[0].ID != "b" {
		t.Errorf("critical suggestion must rank first, got %s", ranked[0].ID)
	}
	if ranked[1].ID != "a" || ranked[2].ID != "c" {
		t.Errorf("remaining order = %s, %s", ranked[1].ID, ranked[2].ID)
	}
}
