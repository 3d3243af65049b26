package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func writeModel(t *testing.T) string {
	t.Helper()
	model := `{
  "places": {"P1": {"tokens": 5}, "P2": {"tokens": 0}, "P3": {"tokens": 0}},
  "transitions": {"T1": {}, "T2": {}},
  "arcs": [
    {"source": "P1", "target": "T1", "weight": 1},
    {"source": "T1", "target": "P2", "weight": 1},
    {"source": "P2", "target": "T2", "weight": 1},
    {"source": "T2", "target": "P3", "weight": 1}
  ]
}`
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte(model), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// With no -t flag the whole model is investigated, not rejected as an
// empty selection.
func TestInvestigateDefaultsToAllTransitions(t *testing.T) {
	path := writeModel(t)
	investigateFlags.kbPath = ""
	investigateFlags.transitions = ""
	investigateFlags.output = ""

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	if err := runInvestigate(cmd, []string{path}); err != nil {
		t.Fatalf("investigate without -t: %v", err)
	}
	if !strings.Contains(buf.String(), "Issues:") {
		t.Errorf("output = %q, want an issue summary", buf.String())
	}
}

func TestInvestigateSingleTransition(t *testing.T) {
	path := writeModel(t)
	investigateFlags.kbPath = ""
	investigateFlags.transitions = "T1"
	investigateFlags.output = ""

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	if err := runInvestigate(cmd, []string{path}); err != nil {
		t.Fatalf("investigate -t T1: %v", err)
	}
	if !strings.Contains(buf.String(), "Suggestions:") {
		t.Errorf("output = %q, want a suggestion summary", buf.String())
	}
}
