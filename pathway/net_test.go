package pathway

import "testing"

// chain builds P1 -> T1 -> P2 -> T2 -> P3.
func chain() *Net {
	return Build().
		Place("P1", 5).
		Place("P2", 0).
		Place("P3", 0).
		Transition("T1").
		Transition("T2").
		Arc("P1", "T1", 1).
		Arc("T1", "P2", 1).
		Arc("P2", "T2", 1).
		Arc("T2", "P3", 1).
		Done()
}

func TestBuilder(t *testing.T) {
	net := chain()
	if len(net.Places) != 3 {
		t.Errorf("expected 3 places, got %d", len(net.Places))
	}
	if len(net.Transitions) != 2 {
		t.Errorf("expected 2 transitions, got %d", len(net.Transitions))
	}
	if len(net.Arcs) != 4 {
		t.Errorf("expected 4 arcs, got %d", len(net.Arcs))
	}
	if err := net.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestArcQueries(t *testing.T) {
	net := chain()

	in := net.InputArcs("T1")
	if len(in) != 1 || in[0].Source != "P1" {
		t.Errorf("InputArcs(T1) = %v", in)
	}
	out := net.OutputArcs("T1")
	if len(out) != 1 || out[0].Target != "P2" {
		t.Errorf("OutputArcs(T1) = %v", out)
	}
	touching := net.ArcsTouching("P2")
	if len(touching) != 2 {
		t.Errorf("ArcsTouching(P2) returned %d arcs, want 2", len(touching))
	}
	neighbors := net.TransitionsTouching("P2")
	if len(neighbors) != 2 || neighbors[0] != "T1" || neighbors[1] != "T2" {
		t.Errorf("TransitionsTouching(P2) = %v", neighbors)
	}
}

func TestValidateRejectsPlaceToPlace(t *testing.T) {
	net := NewNet()
	net.AddPlace("P1", "P1", 0)
	net.AddPlace("P2", "P2", 0)
	net.AddArc("P1", "P2", 1)
	if err := net.Validate(); err == nil {
		t.Error("expected error for place-to-place arc")
	}
}

func TestLocalityOf(t *testing.T) {
	net := chain()
	loc, err := net.LocalityOf("T1")
	if err != nil {
		t.Fatalf("LocalityOf: %v", err)
	}
	if loc.TransitionID != "T1" {
		t.Errorf("transition = %q", loc.TransitionID)
	}
	if len(loc.PlaceIDs) != 2 || loc.PlaceIDs[0] != "P1" || loc.PlaceIDs[1] != "P2" {
		t.Errorf("places = %v", loc.PlaceIDs)
	}
	if len(loc.ArcIDs) != 2 {
		t.Errorf("arcs = %v", loc.ArcIDs)
	}

	if _, err := net.LocalityOf("missing"); err == nil {
		t.Error("expected error for unknown transition")
	}
}

func TestLocalitySharesPlace(t *testing.T) {
	net := chain()
	l1, _ := net.LocalityOf("T1")
	l2, _ := net.LocalityOf("T2")
	if !l1.SharesPlace(l2) {
		t.Error("T1 and T2 share P2, SharesPlace should be true")
	}
}

func TestMarking(t *testing.T) {
	net := chain()
	m := net.InitialMarking()
	if m.Get("P1") != 5 || m.Get("P2") != 0 {
		t.Errorf("initial marking = %v", m)
	}
	if m.Total() != 5 {
		t.Errorf("total = %d, want 5", m.Total())
	}

	c := m.Copy()
	c.Sub("P1", 1)
	c.Add("P2", 1)
	if m.Get("P1") != 5 {
		t.Error("Copy must not alias the original")
	}
	if c.Equals(m) {
		t.Error("modified copy must not equal original")
	}
	if m.Hash() == c.Hash() {
		t.Error("different markings must hash differently")
	}
	if m.Covers(c) {
		t.Error("m lacks tokens on P2, should not cover c")
	}
	if !c.Covers(Marking{"P2": 1}) {
		t.Error("c has a token on P2, should cover {P2:1}")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	net := chain()
	data, err := ToJSON(net)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if len(back.Places) != len(net.Places) || len(back.Transitions) != len(net.Transitions) || len(back.Arcs) != len(net.Arcs) {
		t.Errorf("round trip changed element counts")
	}
	if !back.InitialMarking().Equals(net.InitialMarking()) {
		t.Errorf("round trip changed initial marking")
	}
}
