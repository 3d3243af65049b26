package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/simao-eugenio/shypn-sub018/knowledge"
	"github.com/simao-eugenio/shypn-sub018/pathway"
)

// jsonlEvent is the wire shape of one exported line.
type jsonlEvent struct {
	RunID   string         `json:"run_id"`
	Step    int            `json:"step"`
	Time    float64        `json:"time"`
	Fired   string         `json:"fired,omitempty"`
	Marking map[string]int `json:"marking"`
}

// WriteJSONL exports a trace to a JSONL (JSON Lines) file, one event
// object per line.
func WriteJSONL(filename string, tr knowledge.SimulationTrace) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := WriteJSONLTo(f, tr); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteJSONLTo exports a trace as JSONL lines.
func WriteJSONLTo(w io.Writer, tr knowledge.SimulationTrace) error {
	events, err := FromTrace(tr)
	if err != nil {
		return err
	}

	buffered := bufio.NewWriter(w)
	encoder := json.NewEncoder(buffered)
	for _, e := range events {
		line := jsonlEvent{
			RunID:   e.RunID,
			Step:    e.Step,
			Time:    e.Time,
			Fired:   e.Fired,
			Marking: e.Marking,
		}
		if err := encoder.Encode(line); err != nil {
			return fmt.Errorf("encoding step %d: %w", e.Step, err)
		}
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("flushing: %w", err)
	}
	return nil
}

// ReadJSONL loads a previously exported trace back into memory, e.g.
// for replaying a run through the analyzers.
func ReadJSONL(filename string) (knowledge.SimulationTrace, error) {
	f, err := os.Open(filename)
	if err != nil {
		return knowledge.SimulationTrace{}, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return ReadJSONLFrom(f)
}

// ReadJSONLFrom parses exported JSONL lines back into a trace. Firing
// counts and duration are rebuilt from the events.
func ReadJSONLFrom(r io.Reader) (knowledge.SimulationTrace, error) {
	tr := knowledge.SimulationTrace{Firings: make(map[string]int)}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e jsonlEvent
		if err := json.Unmarshal(line, &e); err != nil {
			return knowledge.SimulationTrace{}, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		if tr.ID == "" {
			tr.ID = e.RunID
		}
		marking := make(pathway.Marking, len(e.Marking))
		for pid, tokens := range e.Marking {
			marking[pid] = tokens
		}
		tr.Samples = append(tr.Samples, knowledge.TraceSample{Time: e.Time, Marking: marking, Fired: e.Fired})
		if e.Fired != "" {
			tr.Firings[e.Fired]++
			tr.Steps++
		}
		tr.Duration = e.Time
	}
	if err := scanner.Err(); err != nil {
		return knowledge.SimulationTrace{}, fmt.Errorf("reading: %w", err)
	}
	if len(tr.Samples) == 0 {
		return knowledge.SimulationTrace{}, ErrEmptyTrace
	}
	return tr, nil
}
