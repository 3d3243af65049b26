package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/simao-eugenio/shypn-sub018/knowledge"
)

var inferFlags struct {
	kbPath     string
	place      string
	transition string
	arc        string
	sources    bool
}

var inferCmd = &cobra.Command{
	Use:   "infer <model.json>",
	Short: "Infer model parameters from the knowledge base",
	Long: `Derive confidence-scored parameter values from accumulated knowledge:
initial markings from basal concentrations or conservation laws, arc
weights from reaction stoichiometry, firing rates from kinetic
parameters, and source placements for starved siphons.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfer,
}

func init() {
	f := inferCmd.Flags()
	f.StringVar(&inferFlags.kbPath, "kb", "", "Path to a persisted knowledge base document")
	f.StringVar(&inferFlags.place, "place", "", "Infer the initial marking of a place")
	f.StringVar(&inferFlags.transition, "transition", "", "Infer the firing rate of a transition")
	f.StringVar(&inferFlags.arc, "arc", "", "Infer the weight of an arc (SOURCE->TARGET)")
	f.BoolVar(&inferFlags.sources, "sources", false, "Suggest source placements for empty siphons")
}

func runInfer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kb, err := loadBase(args[0], inferFlags.kbPath, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ran := false

	if inferFlags.place != "" {
		ran = true
		inf, ok := kb.InferInitialMarking(inferFlags.place)
		if !ok {
			fmt.Fprintf(out, "No marking inference available for place %s\n", inferFlags.place)
		} else {
			printInference(out, fmt.Sprintf("marking of %s", inferFlags.place), inf)
		}
	}
	if inferFlags.transition != "" {
		ran = true
		inf := kb.InferFiringRate(inferFlags.transition)
		printInference(out, fmt.Sprintf("rate of %s", inferFlags.transition), inf)
	}
	if inferFlags.arc != "" {
		ran = true
		inf, ok := kb.InferArcWeight(inferFlags.arc)
		if !ok {
			fmt.Fprintf(out, "No weight inference available for arc %s\n", inferFlags.arc)
		} else {
			printInference(out, fmt.Sprintf("weight of %s", inferFlags.arc), inf)
			if inf.Mismatch {
				fmt.Fprintln(out, "  note: disagrees with the value currently in the model")
			}
		}
	}
	if inferFlags.sources {
		ran = true
		placements := kb.SuggestSourcePlacement()
		if len(placements) == 0 {
			fmt.Fprintln(out, "No empty siphons; no source placements suggested.")
		}
		for _, p := range placements {
			fmt.Fprintf(out, "Source at %s for siphon %s (confidence %.2f)\n", p.PlaceID, p.SiphonID, p.Confidence)
			for _, reason := range p.Reasoning {
				fmt.Fprintf(out, "  %s\n", reason)
			}
		}
	}

	if !ran {
		return fmt.Errorf("nothing to infer: pass --place, --transition, --arc or --sources")
	}
	return nil
}

func printInference(out io.Writer, what string, inf knowledge.Inference) {
	fmt.Fprintf(out, "Inferred %s: %g (confidence %.2f)\n", what, inf.Value, inf.Confidence)
	for _, reason := range inf.Reasoning {
		fmt.Fprintf(out, "  %s\n", reason)
	}
}
