package subnet

import (
	"errors"
	"testing"

	"github.com/simao-eugenio/shypn-sub018/pathway"
)

// branched builds a net with a chain P1->T1->P2->T2->P3 plus a
// disconnected pair P4->T3->P5 and an outside consumer T4 on P2.
func branched() *pathway.Net {
	return pathway.Build().
		Place("P1", 5).
		Place("P2", 0).
		Place("P3", 0).
		Place("P4", 2).
		Place("P5", 0).
		Place("P6", 0).
		Transition("T1").
		Transition("T2").
		Transition("T3").
		Transition("T4").
		Arc("P1", "T1", 1).
		Arc("T1", "P2", 1).
		Arc("P2", "T2", 1).
		Arc("T2", "P3", 1).
		Arc("P4", "T3", 1).
		Arc("T3", "P5", 1).
		Arc("P2", "T4", 1).
		Arc("T4", "P6", 1).
		Done()
}

func localities(t *testing.T, net *pathway.Net, ids ...string) []*pathway.Locality {
	t.Helper()
	var result []*pathway.Locality
	for _, id := range ids {
		loc, err := net.LocalityOf(id)
		if err != nil {
			t.Fatalf("LocalityOf(%s): %v", id, err)
		}
		result = append(result, loc)
	}
	return result
}

func TestBuildConnected(t *testing.T) {
	net := branched()
	sn, err := Build(net, localities(t, net, "T1", "T2"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(sn.Net.Transitions) != 2 {
		t.Errorf("transitions = %v", sn.Net.TransitionIDs())
	}
	if len(sn.Net.Places) != 3 {
		t.Errorf("places = %v", sn.Net.PlaceIDs())
	}
	if len(sn.Net.Arcs) != 4 {
		t.Errorf("arcs = %d, want 4", len(sn.Net.Arcs))
	}
}

func TestBuildRejectsDisconnected(t *testing.T) {
	net := branched()
	_, err := Build(net, localities(t, net, "T1", "T3"))
	if !errors.Is(err, ErrDisconnected) {
		t.Fatalf("err = %v, want ErrDisconnected", err)
	}
}

func TestBuildRejectsEmpty(t *testing.T) {
	if _, err := Build(branched(), nil); !errors.Is(err, ErrNoLocalities) {
		t.Fatalf("err = %v, want ErrNoLocalities", err)
	}
}

func TestBoundaryClassification(t *testing.T) {
	net := branched()
	sn, err := Build(net, localities(t, net, "T1", "T2"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// P2 feeds the outside transition T4, so it is a boundary place;
	// P1 and P3 touch only T1/T2.
	if !sn.Boundary["P2"] {
		t.Error("P2 must be boundary (arc to outside transition T4)")
	}
	if !sn.Internal["P1"] || !sn.Internal["P3"] {
		t.Errorf("internal = %v", sn.Internal)
	}
	if sn.Internal["P2"] {
		t.Error("P2 must not be internal")
	}
}

func TestDependencies(t *testing.T) {
	net := branched()
	sn, err := Build(net, localities(t, net, "T1", "T2"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := Dependency{Source: "T1", PlaceID: "P2", Target: "T2"}
	if len(sn.Dependencies) != 1 || sn.Dependencies[0] != want {
		t.Errorf("dependencies = %v, want [%v]", sn.Dependencies, want)
	}

	if ds := sn.Downstream("T1"); len(ds) != 1 || ds[0] != "T2" {
		t.Errorf("Downstream(T1) = %v", ds)
	}
	if us := sn.Upstream("T2"); len(us) != 1 || us[0] != "T1" {
		t.Errorf("Upstream(T2) = %v", us)
	}
	if ds := sn.Downstream("T2"); len(ds) != 0 {
		t.Errorf("Downstream(T2) = %v", ds)
	}
}

func TestSubnetIsIndependentCopy(t *testing.T) {
	net := branched()
	sn, err := Build(net, localities(t, net, "T1", "T2"))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sn.Net.Places["P1"].Tokens = 99
	if net.Places["P1"].Tokens != 5 {
		t.Error("subnet must not alias the full model")
	}
}

func TestConnectedComponentsPartition(t *testing.T) {
	net := branched()
	locs := localities(t, net, "T1", "T2", "T3", "T4")
	components := ConnectedComponents(locs)

	// T1, T2, T4 all share P2; T3 is separate.
	if len(components) != 2 {
		t.Fatalf("components = %v, want 2", components)
	}
	first, second := components[0], components[1]
	if len(first) != 3 || first[0] != 0 || first[1] != 1 || first[2] != 3 {
		t.Errorf("first component = %v, want [0 1 3]", first)
	}
	if len(second) != 1 || second[0] != 2 {
		t.Errorf("second component = %v, want [2]", second)
	}
}
