// Package experiment manages named parameter snapshots of a subnet
// for comparative what-if analysis. Each snapshot is an independent
// copy of markings, arc weights and firing rates; switching the active
// snapshot never mutates the others.
package experiment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simao-eugenio/shypn-sub018/pathway"
	"github.com/simao-eugenio/shypn-sub018/subnet"
)

var (
	ErrSnapshotNotFound = errors.New("experiment: snapshot not found")
	ErrNoActiveSnapshot = errors.New("experiment: no active snapshot")
)

// Snapshot is one named parameter set: place markings, arc weights and
// transition firing rates, optionally with the simulation result that
// was produced under it. Result is opaque to the manager.
type Snapshot struct {
	ID        string
	Name      string
	Markings  pathway.Marking
	Weights   map[string]int
	Rates     map[string]float64
	Result    any
	CreatedAt time.Time
}

// Copy returns a deep copy of the snapshot. The attached result is
// shared, not copied.
func (s *Snapshot) Copy() *Snapshot {
	cp := &Snapshot{
		ID:        s.ID,
		Name:      s.Name,
		Markings:  s.Markings.Copy(),
		Weights:   make(map[string]int, len(s.Weights)),
		Rates:     make(map[string]float64, len(s.Rates)),
		Result:    s.Result,
		CreatedAt: s.CreatedAt,
	}
	for k, v := range s.Weights {
		cp.Weights[k] = v
	}
	for k, v := range s.Rates {
		cp.Rates[k] = v
	}
	return cp
}

// Manager stores snapshots for one subnet and tracks which one is
// active.
type Manager struct {
	sn        *subnet.Subnet
	snapshots map[string]*Snapshot
	order     []string
	active    string
}

// NewManager creates a snapshot manager bound to one subnet.
func NewManager(sn *subnet.Subnet) *Manager {
	return &Manager{sn: sn, snapshots: make(map[string]*Snapshot)}
}

// Save captures the subnet's current markings and weights, together
// with the given rates, as a new named snapshot and returns its ID.
// The first saved snapshot becomes active.
func (m *Manager) Save(name string, rates map[string]float64) string {
	snap := &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Markings:  m.sn.Net.InitialMarking(),
		Weights:   make(map[string]int, len(m.sn.Net.Arcs)),
		Rates:     make(map[string]float64, len(rates)),
		CreatedAt: time.Now().UTC(),
	}
	for _, a := range m.sn.Net.Arcs {
		snap.Weights[a.ID] = a.Weight
	}
	for k, v := range rates {
		snap.Rates[k] = v
	}
	m.snapshots[snap.ID] = snap
	m.order = append(m.order, snap.ID)
	if m.active == "" {
		m.active = snap.ID
	}
	return snap.ID
}

// Load returns a copy of a snapshot by ID.
func (m *Manager) Load(id string) (*Snapshot, error) {
	snap, ok := m.snapshots[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return snap.Copy(), nil
}

// List returns copies of all snapshots in creation order.
func (m *Manager) List() []*Snapshot {
	result := make([]*Snapshot, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.snapshots[id].Copy())
	}
	return result
}

// Switch makes a snapshot active and applies it to the subnet,
// returning a copy of its rates for the caller to simulate with.
func (m *Manager) Switch(id string) (map[string]float64, error) {
	snap, ok := m.snapshots[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	m.active = id
	return m.apply(snap), nil
}

// Active returns a copy of the active snapshot.
func (m *Manager) Active() (*Snapshot, error) {
	if m.active == "" {
		return nil, ErrNoActiveSnapshot
	}
	return m.snapshots[m.active].Copy(), nil
}

// AttachResult stores a simulation result on a snapshot.
func (m *Manager) AttachResult(id string, result any) error {
	snap, ok := m.snapshots[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	snap.Result = result
	return nil
}

// Delete removes a snapshot. Deleting the active snapshot clears the
// active selection.
func (m *Manager) Delete(id string) error {
	if _, ok := m.snapshots[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	delete(m.snapshots, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.active == id {
		m.active = ""
	}
	return nil
}

// apply writes a snapshot's markings and weights onto the subnet.
// Applying the same snapshot twice yields the same state as once.
func (m *Manager) apply(snap *Snapshot) map[string]float64 {
	for pid, p := range m.sn.Net.Places {
		p.Tokens = snap.Markings.Get(pid)
	}
	for _, a := range m.sn.Net.Arcs {
		if w, ok := snap.Weights[a.ID]; ok {
			a.Weight = w
		}
	}
	rates := make(map[string]float64, len(snap.Rates))
	for k, v := range snap.Rates {
		rates[k] = v
	}
	return rates
}

// Names returns snapshot names keyed by ID, for display.
func (m *Manager) Names() map[string]string {
	names := make(map[string]string, len(m.snapshots))
	for id, snap := range m.snapshots {
		names[id] = snap.Name
	}
	return names
}

// IDs returns all snapshot IDs in creation order.
func (m *Manager) IDs() []string {
	ids := append([]string(nil), m.order...)
	return ids
}

// FindByName returns the IDs of snapshots with the given name, in
// creation order. Names are not unique.
func (m *Manager) FindByName(name string) []string {
	var ids []string
	for _, id := range m.order {
		if m.snapshots[id].Name == name {
			ids = append(ids, id)
		}
	}
	return ids
}
