package experiment

import (
	"errors"
	"testing"

	"github.com/simao-eugenio/shypn-sub018/pathway"
	"github.com/simao-eugenio/shypn-sub018/subnet"
)

func testSubnet(t *testing.T) *subnet.Subnet {
	t.Helper()
	net := pathway.Build().
		Place("P1", 5).
		Place("P2", 0).
		Transition("T1").
		Arc("P1", "T1", 1).
		Arc("T1", "P2", 1).
		Done()
	loc, err := net.LocalityOf("T1")
	if err != nil {
		t.Fatal(err)
	}
	sn, err := subnet.Build(net, []*pathway.Locality{loc})
	if err != nil {
		t.Fatal(err)
	}
	return sn
}

func TestSaveLoadList(t *testing.T) {
	sn := testSubnet(t)
	m := NewManager(sn)

	id1 := m.Save("baseline", map[string]float64{"T1": 1.0})
	sn.Net.Places["P1"].Tokens = 9
	id2 := m.Save("boosted", map[string]float64{"T1": 2.5})

	snap1, err := m.Load(id1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap1.Markings.Get("P1") != 5 || snap1.Rates["T1"] != 1.0 {
		t.Errorf("snapshot 1 = %+v", snap1)
	}
	snap2, err := m.Load(id2)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap2.Markings.Get("P1") != 9 || snap2.Rates["T1"] != 2.5 {
		t.Errorf("snapshot 2 = %+v", snap2)
	}

	list := m.List()
	if len(list) != 2 || list[0].Name != "baseline" || list[1].Name != "boosted" {
		t.Errorf("list = %+v", list)
	}

	if _, err := m.Load("missing"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestSnapshotsAreIndependent(t *testing.T) {
	sn := testSubnet(t)
	m := NewManager(sn)
	id1 := m.Save("baseline", map[string]float64{"T1": 1.0})

	// Mutating a loaded copy must not affect the stored snapshot.
	loaded, _ := m.Load(id1)
	loaded.Markings.Set("P1", 0)
	loaded.Rates["T1"] = 99

	again, _ := m.Load(id1)
	if again.Markings.Get("P1") != 5 || again.Rates["T1"] != 1.0 {
		t.Error("stored snapshot was mutated through a loaded copy")
	}
}

func TestSwitchAppliesAndPreservesOthers(t *testing.T) {
	sn := testSubnet(t)
	m := NewManager(sn)
	base := m.Save("baseline", map[string]float64{"T1": 1.0})

	sn.Net.Places["P1"].Tokens = 9
	for _, a := range sn.Net.Arcs {
		a.Weight = 2
	}
	boosted := m.Save("boosted", map[string]float64{"T1": 2.5})

	rates, err := m.Switch(base)
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if sn.Net.Places["P1"].Tokens != 5 {
		t.Errorf("P1 tokens = %d, want 5", sn.Net.Places["P1"].Tokens)
	}
	if sn.Net.Arcs[0].Weight != 1 {
		t.Errorf("arc weight = %d, want 1", sn.Net.Arcs[0].Weight)
	}
	if rates["T1"] != 1.0 {
		t.Errorf("rates = %v", rates)
	}

	// Switching must not have touched the other snapshot.
	other, _ := m.Load(boosted)
	if other.Markings.Get("P1") != 9 || other.Weights[sn.Net.Arcs[0].ID] != 2 {
		t.Errorf("boosted snapshot mutated: %+v", other)
	}

	active, err := m.Active()
	if err != nil || active.ID != base {
		t.Errorf("active = %+v, %v", active, err)
	}
}

func TestSwitchIsIdempotent(t *testing.T) {
	sn := testSubnet(t)
	m := NewManager(sn)
	id := m.Save("baseline", map[string]float64{"T1": 1.0})

	if _, err := m.Switch(id); err != nil {
		t.Fatal(err)
	}
	first := sn.Net.InitialMarking()
	firstWeight := sn.Net.Arcs[0].Weight

	if _, err := m.Switch(id); err != nil {
		t.Fatal(err)
	}
	if !sn.Net.InitialMarking().Equals(first) || sn.Net.Arcs[0].Weight != firstWeight {
		t.Error("second apply of the same snapshot changed state")
	}
}

func TestDelete(t *testing.T) {
	sn := testSubnet(t)
	m := NewManager(sn)
	id := m.Save("baseline", nil)

	if err := m.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Active(); !errors.Is(err, ErrNoActiveSnapshot) {
		t.Errorf("err = %v, want ErrNoActiveSnapshot", err)
	}
	if err := m.Delete(id); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestAttachResult(t *testing.T) {
	sn := testSubnet(t)
	m := NewManager(sn)
	id := m.Save("baseline", nil)
	if err := m.AttachResult(id, "result-marker"); err != nil {
		t.Fatal(err)
	}
	snap, _ := m.Load(id)
	if snap.Result != "result-marker" {
		t.Errorf("result = %v", snap.Result)
	}
}
