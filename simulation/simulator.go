// Package simulation executes a subnet as a stochastic discrete-event
// system. Firing selection is propensity weighted with exponential
// waiting times (Gillespie-style): the next event time is sampled from
// the summed rate of all enabled transitions and the firing transition
// is chosen with probability proportional to its own rate.
package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/simao-eugenio/shypn-sub018/config"
	"github.com/simao-eugenio/shypn-sub018/experiment"
	"github.com/simao-eugenio/shypn-sub018/knowledge"
	"github.com/simao-eugenio/shypn-sub018/pathway"
	"github.com/simao-eugenio/shypn-sub018/subnet"
)

// State is the simulator lifecycle state.
type State string

const (
	StateIdle        State = "idle"
	StateInitialized State = "initialized"
	StateRunning     State = "running"
	StatePaused      State = "paused"
	StateCompleted   State = "completed"
	StateDeadlocked  State = "deadlocked"
)

// Viability classifies the outcome of a run.
type Viability string

const (
	ViabilityStable    Viability = "stable"
	ViabilityDeadlock  Viability = "deadlock"
	ViabilityUnbounded Viability = "unbounded"
)

// StepRecord describes one firing event (or the deadlock poll that
// ended the run).
type StepRecord struct {
	Step       int
	Time       float64
	Fired      string
	Before     pathway.Marking
	After      pathway.Marking
	Enabled    []string
	Deadlocked bool
}

// Result aggregates a completed run.
type Result struct {
	FinalMarking pathway.Marking
	Firings      map[string]int
	// Flux is firings per unit of simulated time, per transition.
	Flux      map[string]float64
	Elapsed   float64
	Steps     int
	Viability Viability
	Trace     knowledge.SimulationTrace
}

// Simulator executes one subnet. It operates purely on its own copies
// of markings, weights and rates; the subnet and the knowledge base
// are never touched during a run.
type Simulator struct {
	sn  *subnet.Subnet
	cfg *config.Config

	state   State
	snap    *experiment.Snapshot
	marking pathway.Marking
	weights map[string]int
	rates   map[string]float64

	rng    *rand.Rand
	seed   int64
	seeded bool

	clock   float64
	step    int
	firings map[string]int
	samples []knowledge.TraceSample
}

// New creates an idle simulator for a subnet with default configuration
// when cfg is nil.
func New(sn *subnet.Subnet, cfg *config.Config) *Simulator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Simulator{sn: sn, cfg: cfg, state: StateIdle}
}

// WithSeed fixes the random source so the full firing sequence and
// timing reproduce exactly across runs.
func (s *Simulator) WithSeed(seed int64) *Simulator {
	s.seed = seed
	s.seeded = true
	return s
}

// State returns the current lifecycle state.
func (s *Simulator) State() State {
	return s.state
}

// Clock returns the current simulated time.
func (s *Simulator) Clock() float64 {
	return s.clock
}

// Initialize copies markings, weights and rates from the snapshot onto
// internal simulation state. Transitions missing a rate get the
// configured default mass-action rate.
func (s *Simulator) Initialize(snap *experiment.Snapshot) error {
	if snap == nil {
		return ErrNoSnapshot
	}
	if len(s.sn.Net.Transitions) == 0 {
		return ErrNoTransitions
	}
	s.snap = snap.Copy()
	s.applySnapshot()
	s.state = StateInitialized
	return nil
}

func (s *Simulator) applySnapshot() {
	s.marking = make(pathway.Marking, len(s.sn.Net.Places))
	for pid := range s.sn.Net.Places {
		s.marking[pid] = s.snap.Markings.Get(pid)
	}
	s.weights = make(map[string]int, len(s.sn.Net.Arcs))
	for _, a := range s.sn.Net.Arcs {
		w := a.Weight
		if sw, ok := s.snap.Weights[a.ID]; ok {
			w = sw
		}
		s.weights[a.ID] = w
	}
	s.rates = make(map[string]float64, len(s.sn.Net.Transitions))
	for tid := range s.sn.Net.Transitions {
		if r, ok := s.snap.Rates[tid]; ok && r > 0 {
			s.rates[tid] = r
		} else {
			s.rates[tid] = s.cfg.Simulation.DefaultRate
		}
	}

	if s.seeded {
		s.rng = rand.New(rand.NewSource(s.seed))
	} else {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.clock = 0
	s.step = 0
	s.firings = make(map[string]int, len(s.sn.Net.Transitions))
	s.samples = []knowledge.TraceSample{{Time: 0, Marking: s.marking.Copy()}}
}

// Reset re-applies the last snapshot, discarding the accumulated
// trajectory, and returns the simulator to the initialized state.
func (s *Simulator) Reset() error {
	if s.snap == nil {
		return ErrNotInitialized
	}
	s.applySnapshot()
	s.state = StateInitialized
	return nil
}

// Pause suspends a running simulation between steps.
func (s *Simulator) Pause() error {
	if s.state != StateRunning {
		return fmt.Errorf("%w: pause from %s", ErrBadTransition, s.state)
	}
	s.state = StatePaused
	return nil
}

// Resume continues a paused simulation.
func (s *Simulator) Resume() error {
	if s.state != StatePaused {
		return fmt.Errorf("%w: resume from %s", ErrBadTransition, s.state)
	}
	s.state = StateRunning
	return nil
}

// Enabled returns the sorted identifiers of currently enabled
// transitions: those whose every input place holds at least the arc
// weight in tokens.
func (s *Simulator) Enabled() []string {
	var enabled []string
	for tid := range s.sn.Net.Transitions {
		if s.isEnabled(tid) {
			enabled = append(enabled, tid)
		}
	}
	sort.Strings(enabled)
	return enabled
}

func (s *Simulator) isEnabled(transitionID string) bool {
	for _, arc := range s.sn.Net.InputArcs(transitionID) {
		if s.marking.Get(arc.Source) < s.weights[arc.ID] {
			return false
		}
	}
	return true
}

// Step executes one firing event atomically. With no transition
// enabled it reports deadlock as data, not as an error, and the
// simulator becomes terminal.
func (s *Simulator) Step() (*StepRecord, error) {
	switch s.state {
	case StateIdle:
		return nil, ErrNotInitialized
	case StateCompleted, StateDeadlocked:
		return nil, fmt.Errorf("%w: %s", ErrTerminal, s.state)
	}
	s.state = StateRunning

	enabled := s.Enabled()
	if len(enabled) == 0 {
		s.state = StateDeadlocked
		return &StepRecord{
			Step:       s.step,
			Time:       s.clock,
			Before:     s.marking.Copy(),
			After:      s.marking.Copy(),
			Deadlocked: true,
		}, nil
	}

	total := 0.0
	for _, tid := range enabled {
		total += s.rates[tid]
	}
	// Zero summed propensity means nothing can ever fire; treat it
	// like an empty enabled set rather than dividing by zero.
	if total <= 0 {
		s.state = StateDeadlocked
		return &StepRecord{
			Step:       s.step,
			Time:       s.clock,
			Before:     s.marking.Copy(),
			After:      s.marking.Copy(),
			Enabled:    enabled,
			Deadlocked: true,
		}, nil
	}

	// Exponential waiting time with the summed propensity as rate,
	// then a propensity-proportional winner.
	s.clock += s.rng.ExpFloat64() / total
	pick := s.rng.Float64() * total
	fired := enabled[len(enabled)-1]
	for _, tid := range enabled {
		pick -= s.rates[tid]
		if pick < 0 {
			fired = tid
			break
		}
	}

	before := s.marking.Copy()
	for _, arc := range s.sn.Net.InputArcs(fired) {
		s.marking.Sub(arc.Source, s.weights[arc.ID])
	}
	for _, arc := range s.sn.Net.OutputArcs(fired) {
		s.marking.Add(arc.Target, s.weights[arc.ID])
	}
	s.step++
	s.firings[fired]++
	s.samples = append(s.samples, knowledge.TraceSample{Time: s.clock, Marking: s.marking.Copy(), Fired: fired})
	stepsTotal.Inc()
	firingsTotal.WithLabelValues(fired).Inc()

	return &StepRecord{
		Step:    s.step,
		Time:    s.clock,
		Fired:   fired,
		Before:  before,
		After:   s.marking.Copy(),
		Enabled: s.Enabled(),
	}, nil
}

// RunToCompletion repeatedly steps until a limit is reached, the net
// deadlocks, a place exceeds the unbounded ceiling, or the context is
// cancelled. Cancellation is checked between steps only; a firing
// always completes atomically. Zero limits fall back to the configured
// defaults.
//
// Viability derives from the terminal cause: a run stopped by its step
// or time limit is stable, a no-enabled-transitions poll is deadlock
// (the strict definition, even for an expected absorbing state), and
// crossing the ceiling is unbounded.
func (s *Simulator) RunToCompletion(ctx context.Context, maxTime float64, maxSteps int) (*Result, error) {
	if s.state == StateIdle {
		return nil, ErrNotInitialized
	}
	if maxTime <= 0 {
		maxTime = s.cfg.Simulation.MaxTime
	}
	if maxSteps <= 0 {
		maxSteps = s.cfg.Simulation.MaxSteps
	}

	viability := ViabilityStable
	for s.step < maxSteps && s.clock < maxTime {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := s.Step()
		if err != nil {
			return nil, err
		}
		if record.Deadlocked {
			viability = ViabilityDeadlock
			break
		}
		if s.marking.Max() > s.cfg.Simulation.UnboundedCeiling {
			viability = ViabilityUnbounded
			break
		}
	}
	if s.state != StateDeadlocked {
		s.state = StateCompleted
	}
	return s.result(viability), nil
}

func (s *Simulator) result(viability Viability) *Result {
	firings := make(map[string]int, len(s.firings))
	flux := make(map[string]float64, len(s.firings))
	for tid, count := range s.firings {
		firings[tid] = count
		if s.clock > 0 {
			flux[tid] = float64(count) / s.clock
		}
	}
	return &Result{
		FinalMarking: s.marking.Copy(),
		Firings:      firings,
		Flux:         flux,
		Elapsed:      s.clock,
		Steps:        s.step,
		Viability:    viability,
		Trace: knowledge.SimulationTrace{
			ID:       uuid.NewString(),
			Samples:  append([]knowledge.TraceSample(nil), s.samples...),
			Firings:  firings,
			Duration: s.clock,
			Steps:    s.step,
		},
	}
}
