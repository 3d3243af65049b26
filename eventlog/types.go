// Package eventlog exports simulation trajectories as event logs for
// external analysis. Supports CSV and JSONL, the formats process
// mining and plotting tools commonly ingest.
package eventlog

import (
	"errors"
	"sort"

	"github.com/simao-eugenio/shypn-sub018/knowledge"
)

var ErrEmptyTrace = errors.New("eventlog: trace has no samples")

// Event is one exported row: a firing event (or the initial state)
// with the marking it produced.
type Event struct {
	RunID   string         // identifier of the simulation run
	Step    int            // 0 for the initial state
	Time    float64        // simulated time of the event
	Fired   string         // transition that fired; empty on step 0
	Marking map[string]int // marking after the event
}

// FromTrace flattens a simulation trace into ordered events.
func FromTrace(tr knowledge.SimulationTrace) ([]Event, error) {
	if len(tr.Samples) == 0 {
		return nil, ErrEmptyTrace
	}
	events := make([]Event, 0, len(tr.Samples))
	for i, sample := range tr.Samples {
		marking := make(map[string]int, len(sample.Marking))
		for pid, tokens := range sample.Marking {
			marking[pid] = tokens
		}
		events = append(events, Event{
			RunID:   tr.ID,
			Step:    i,
			Time:    sample.Time,
			Fired:   sample.Fired,
			Marking: marking,
		})
	}
	return events, nil
}

// placeColumns returns the union of place identifiers across all
// events, sorted for a stable column layout.
func placeColumns(events []Event) []string {
	seen := make(map[string]bool)
	for _, e := range events {
		for pid := range e.Marking {
			seen[pid] = true
		}
	}
	cols := make([]string, 0, len(seen))
	for pid := range seen {
		cols = append(cols, pid)
	}
	sort.Strings(cols)
	return cols
}
