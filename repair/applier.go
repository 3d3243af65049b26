package repair

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/simao-eugenio/shypn-sub018/diagnosis"
	"github.com/simao-eugenio/shypn-sub018/knowledge"
	"github.com/simao-eugenio/shypn-sub018/subnet"
)

// Applier commits suggestions to a subnet's live state. Marking and
// weight changes land on the subnet's copied network, rate changes on
// the rate table the caller simulates with. Every application retains
// the previous value so it can be undone individually. When a
// knowledge base is attached, each committed change is appended to its
// change history.
type Applier struct {
	sn    *subnet.Subnet
	rates map[string]float64
	kb    *knowledge.Base
}

// BatchResult reports a batch application. Applied holds the changes
// committed in order. A failure stops the batch: FailedIndex names the
// offending step (-1 when all steps committed) and Err carries its
// error. Prior committed steps stay committed.
type BatchResult struct {
	Applied     []knowledge.Change
	FailedIndex int
	Err         error
}

// NewApplier binds an applier to a subnet and its rate table. kb may
// be nil when no change history is wanted.
func NewApplier(sn *subnet.Subnet, rates map[string]float64, kb *knowledge.Base) *Applier {
	return &Applier{sn: sn, rates: rates, kb: kb}
}

// Apply commits one suggestion and returns the reversible change
// record.
func (a *Applier) Apply(s diagnosis.Suggestion) (knowledge.Change, error) {
	change := knowledge.Change{
		ID:       uuid.NewString(),
		Action:   string(s.Action),
		TargetID: s.TargetID,
		Applied:  s.Value,
		At:       time.Now().UTC(),
	}

	switch s.Action {
	case diagnosis.ActionSetMarking:
		place, ok := a.sn.Net.Places[s.TargetID]
		if !ok {
			return knowledge.Change{}, fmt.Errorf("%w: place %s", ErrUnknownTarget, s.TargetID)
		}
		tokens := int(math.Round(s.Value))
		if tokens < 0 {
			return knowledge.Change{}, fmt.Errorf("%w: marking %g", ErrBadValue, s.Value)
		}
		change.Previous = float64(place.Tokens)
		change.Applied = float64(tokens)
		place.Tokens = tokens

	case diagnosis.ActionSetRate:
		if !a.sn.Net.IsTransition(s.TargetID) {
			return knowledge.Change{}, fmt.Errorf("%w: transition %s", ErrUnknownTarget, s.TargetID)
		}
		if s.Value < 0 {
			return knowledge.Change{}, fmt.Errorf("%w: rate %g", ErrBadValue, s.Value)
		}
		change.Previous = a.rates[s.TargetID]
		a.rates[s.TargetID] = s.Value

	case diagnosis.ActionSetWeight:
		arc, ok := a.sn.Net.Arc(s.TargetID)
		if !ok {
			return knowledge.Change{}, fmt.Errorf("%w: arc %s", ErrUnknownTarget, s.TargetID)
		}
		weight := int(math.Round(s.Value))
		if weight < 1 {
			return knowledge.Change{}, fmt.Errorf("%w: weight %g", ErrBadValue, s.Value)
		}
		change.Previous = float64(arc.Weight)
		change.Applied = float64(weight)
		arc.Weight = weight

	case diagnosis.ActionAddSource, diagnosis.ActionAddSink:
		if !a.sn.Net.IsPlace(s.TargetID) {
			return knowledge.Change{}, fmt.Errorf("%w: place %s", ErrUnknownTarget, s.TargetID)
		}
		tid := helperTransitionID(s.Action, s.TargetID)
		if a.sn.Net.IsTransition(tid) {
			return knowledge.Change{}, fmt.Errorf("%w: %s", ErrAlreadyExists, tid)
		}
		rate := s.Value
		if rate <= 0 {
			rate = 1.0
		}
		a.sn.Net.AddTransition(tid, tid)
		if s.Action == diagnosis.ActionAddSource {
			a.sn.Net.AddArc(tid, s.TargetID, 1)
		} else {
			a.sn.Net.AddArc(s.TargetID, tid, 1)
		}
		a.rates[tid] = rate
		change.Applied = rate

	default:
		return knowledge.Change{}, fmt.Errorf("%w: %s", ErrBadAction, s.Action)
	}

	if a.kb != nil {
		a.kb.RecordChange(change)
	}
	changesApplied.WithLabelValues(string(s.Action)).Inc()
	return change, nil
}

// ApplyBatch commits an ordered batch. The batch stops at the first
// failing step; everything committed before it remains committed.
func (a *Applier) ApplyBatch(ordered []diagnosis.Suggestion) BatchResult {
	result := BatchResult{FailedIndex: -1}
	for i, s := range ordered {
		change, err := a.Apply(s)
		if err != nil {
			result.FailedIndex = i
			result.Err = err
			changesFailed.WithLabelValues(string(s.Action)).Inc()
			return result
		}
		result.Applied = append(result.Applied, change)
	}
	return result
}

// Undo reverses one committed change by restoring the previous value,
// or by removing the helper transition an add-source/add-sink created.
func (a *Applier) Undo(change knowledge.Change) error {
	switch diagnosis.Action(change.Action) {
	case diagnosis.ActionSetMarking:
		place, ok := a.sn.Net.Places[change.TargetID]
		if !ok {
			return fmt.Errorf("%w: place %s", ErrUnknownTarget, change.TargetID)
		}
		place.Tokens = int(math.Round(change.Previous))

	case diagnosis.ActionSetRate:
		if !a.sn.Net.IsTransition(change.TargetID) {
			return fmt.Errorf("%w: transition %s", ErrUnknownTarget, change.TargetID)
		}
		a.rates[change.TargetID] = change.Previous

	case diagnosis.ActionSetWeight:
		arc, ok := a.sn.Net.Arc(change.TargetID)
		if !ok {
			return fmt.Errorf("%w: arc %s", ErrUnknownTarget, change.TargetID)
		}
		arc.Weight = int(math.Round(change.Previous))

	case diagnosis.ActionAddSource, diagnosis.ActionAddSink:
		tid := helperTransitionID(diagnosis.Action(change.Action), change.TargetID)
		if !a.sn.Net.IsTransition(tid) {
			return fmt.Errorf("%w: transition %s", ErrUnknownTarget, tid)
		}
		a.removeTransition(tid)
		delete(a.rates, tid)

	default:
		return fmt.Errorf("%w: %s", ErrBadAction, change.Action)
	}
	return nil
}

func helperTransitionID(action diagnosis.Action, placeID string) string {
	if action == diagnosis.ActionAddSource {
		return "source_" + placeID
	}
	return "sink_" + placeID
}

func (a *Applier) removeTransition(tid string) {
	delete(a.sn.Net.Transitions, tid)
	kept := a.sn.Net.Arcs[:0]
	for _, arc := range a.sn.Net.Arcs {
		if arc.Source == tid || arc.Target == tid {
			continue
		}
		kept = append(kept, arc)
	}
	a.sn.Net.Arcs = kept
}
