package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inspectFlags struct {
	kbPath string
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <model.json>",
	Short: "Summarize a model and its knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFlags.kbPath, "kb", "", "Path to a persisted knowledge base document")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kb, err := loadBase(args[0], inspectFlags.kbPath, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	net := kb.Net()
	fmt.Fprintf(out, "Model: %s\n", kb.ModelID)
	fmt.Fprintf(out, "Places: %d  Transitions: %d  Arcs: %d\n",
		len(net.Places), len(net.Transitions), len(net.Arcs))

	marking := net.InitialMarking()
	fmt.Fprintf(out, "Initial tokens: %d\n", marking.Total())

	fmt.Fprintf(out, "P-invariants: %d  T-invariants: %d\n", len(kb.PInvariants()), len(kb.TInvariants()))
	fmt.Fprintf(out, "Siphons: %d  Traps: %d  Known deadlock markings: %d\n",
		len(kb.Siphons()), len(kb.Traps()), len(kb.Deadlocks()))

	mappedPlaces := 0
	for _, pid := range kb.PlaceIDs() {
		if _, ok := kb.CompoundOf(pid); ok {
			mappedPlaces++
		}
	}
	mappedTransitions := 0
	withKinetics := 0
	for _, tid := range kb.TransitionIDs() {
		if _, ok := kb.ReactionOf(tid); ok {
			mappedTransitions++
		}
		if _, ok := kb.Kinetics(tid); ok {
			withKinetics++
		}
	}
	fmt.Fprintf(out, "Biological mapping: %d/%d places, %d/%d transitions\n",
		mappedPlaces, len(kb.PlaceIDs()), mappedTransitions, len(kb.TransitionIDs()))
	fmt.Fprintf(out, "Kinetic parameters: %d transitions\n", withKinetics)

	traces := kb.Traces()
	fmt.Fprintf(out, "Simulation traces: %d\n", len(traces))
	if tr, ok := kb.LatestTrace(); ok {
		fmt.Fprintf(out, "Latest trace: %s (%d steps over %.3f time units)\n", tr.ID, tr.Steps, tr.Duration)
	}
	if changes := kb.Changes(); len(changes) > 0 {
		fmt.Fprintf(out, "Applied changes: %d\n", len(changes))
	}
	return nil
}
