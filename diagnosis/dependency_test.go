package diagnosis

import (
	"testing"

	"github.com/simao-eugenio/shypn-sub018/knowledge"
	"github.com/simao-eugenio/shypn-sub018/pathway"
)

func traceWith(firings map[string]int, duration float64, markings ...pathway.Marking) knowledge.SimulationTrace {
	tr := knowledge.SimulationTrace{
		ID:       "run",
		Firings:  firings,
		Duration: duration,
		Steps:    0,
	}
	for i, m := range markings {
		tr.Samples = append(tr.Samples, knowledge.TraceSample{
			Time:    duration * float64(i) / float64(len(markings)),
			Marking: m,
		})
	}
	return tr
}

func TestFlowImbalance(t *testing.T) {
	e, kb := chainEngine(t)
	// T1 fired 10 times, T2 only once over the same interval.
	tr := traceWith(map[string]int{"T1": 10, "T2": 1}, 10,
		pathway.Marking{"P1": 15, "P2": 0, "P3": 0},
		pathway.Marking{"P1": 5, "P2": 9, "P3": 1},
	)
	if err := kb.UpdateTrace(tr); err != nil {
		t.Fatal(err)
	}

	report, err := e.InvestigateSubnet([]string{"T1", "T2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.IssuesByCategory(CategoryFlow)) == 0 {
		t.Errorf("diverging producer/consumer flux must raise a flow issue, got %+v", report.Issues)
	}
}

func TestBottleneckTargetsSlowTransition(t *testing.T) {
	e, kb := chainEngine(t)
	// T1 is the bottleneck: it fires far slower than its dependent T2
	// could (T2 drains its backlog fast whenever enabled).
	tr := traceWith(map[string]int{"T1": 1, "T2": 10}, 10,
		pathway.Marking{"P1": 20, "P2": 10, "P3": 0},
		pathway.Marking{"P1": 19, "P2": 1, "P3": 10},
	)
	if err := kb.UpdateTrace(tr); err != nil {
		t.Fatal(err)
	}

	report, err := e.InvestigateSubnet([]string{"T1", "T2"})
	if err != nil {
		t.Fatal(err)
	}
	bottlenecks := report.IssuesByCategory(CategoryBottleneck)
	if len(bottlenecks) != 1 {
		t.Fatalf("bottleneck issues = %+v", bottlenecks)
	}
	if bottlenecks[0].ElementIDs[0] != "T1" {
		t.Errorf("bottleneck root = %s, want T1", bottlenecks[0].ElementIDs[0])
	}
	// The suggestion must target the bottleneck itself.
	found := false
	for _, s := range report.Suggestions {
		if s.Action == ActionSetRate && s.TargetID == "T1" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a set-rate suggestion for T1, got %+v", report.Suggestions)
	}
}

func TestCascadeAttributesRootCause(t *testing.T) {
	e, kb := chainEngine(t)
	// Neither T1 nor T2 ever fires: T1 is starved at the source, T2's
	// silence is the downstream symptom.
	tr := traceWith(map[string]int{"T1": 0, "T2": 0}, 5,
		pathway.Marking{"P1": 0, "P2": 0, "P3": 0},
		pathway.Marking{"P1": 0, "P2": 0, "P3": 0},
	)
	if err := kb.UpdateTrace(tr); err != nil {
		t.Fatal(err)
	}

	report, err := e.InvestigateSubnet([]string{"T1", "T2"})
	if err != nil {
		t.Fatal(err)
	}
	cascades := report.IssuesByCategory(CategoryCascade)
	if len(cascades) != 1 {
		t.Fatalf("cascade issues = %+v", cascades)
	}
	if cascades[0].ElementIDs[0] != "T1" || cascades[0].ElementIDs[1] != "T2" {
		t.Errorf("cascade = %v, want root T1 then symptom T2", cascades[0].ElementIDs)
	}
	// No rate suggestion may target the symptom.
	for _, s := range report.Suggestions {
		if s.Action == ActionSetRate && s.TargetID == "T2" {
			t.Errorf("suggestion targets the symptom T2: %+v", s)
		}
	}
}
