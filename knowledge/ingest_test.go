package knowledge

import (
	"log/slog"
	"testing"

	"github.com/simao-eugenio/shypn-sub018/pathway"
)

func TestIngestSkipsMalformedItems(t *testing.T) {
	b := testBase(t)
	logger := slog.New(slog.DiscardHandler)

	items := []Item{
		{Domain: DomainSiphons, Payload: []Siphon{{ID: "s1", Places: []string{"P2"}}}},
		{Domain: DomainSiphons, Payload: "not a siphon list"},
		{Domain: DomainLiveness, Payload: map[string]int{"nope": 1}},
		{Domain: DomainKinetics, Payload: []KineticParameters{{TransitionID: "T1", MaxRate: 2.0, Provenance: Provenance{Source: "sabio-rk", Confidence: 0.6}}}},
		{Domain: Domain("bogus"), Payload: nil},
	}
	report := b.Ingest(items, logger)

	if report.Applied != 2 {
		t.Errorf("applied = %d, want 2", report.Applied)
	}
	if len(report.Skipped) != 3 {
		t.Fatalf("skipped = %+v, want 3 entries", report.Skipped)
	}
	if report.Skipped[0].Index != 1 || report.Skipped[1].Index != 2 || report.Skipped[2].Index != 4 {
		t.Errorf("skipped indices = %+v", report.Skipped)
	}

	// Items after a failure must still land.
	if _, ok := b.Kinetics("T1"); !ok {
		t.Error("kinetics item after malformed items was not applied")
	}
	if got := b.Siphons(); len(got) != 1 || got[0].ID != "s1" {
		t.Errorf("siphons = %v", got)
	}
}

func TestIngestMarking(t *testing.T) {
	b := testBase(t)
	report := b.Ingest([]Item{
		{Domain: DomainMarking, Payload: pathway.Marking{"P1": 1, "P2": 4}},
	}, slog.New(slog.DiscardHandler))
	if report.Applied != 1 || len(report.Skipped) != 0 {
		t.Fatalf("report = %+v", report)
	}
	if m := b.Marking(); m.Get("P2") != 4 {
		t.Errorf("marking = %v", m)
	}
}
