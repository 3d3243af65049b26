package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simao-eugenio/shypn-sub018/eventlog"
	"github.com/simao-eugenio/shypn-sub018/experiment"
	"github.com/simao-eugenio/shypn-sub018/simulation"
)

// Seeded what-if runs with identical parameters are answered from the
// cache instead of re-simulating.
var runCache = simulation.NewRunCache(64)

var simulateFlags struct {
	kbPath      string
	transitions string
	rates       []string
	markings    []string
	seed        int64
	maxTime     float64
	maxSteps    int
	output      string
	saveKB      string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <model.json>",
	Short: "Run a stochastic simulation of a subnet",
	Long: `Extract the subnet spanned by the selected transitions and run it to
completion under a parameter snapshot. Rates default to the kinetic
inference from the knowledge base, overridable per transition.

The trace can be exported with --output; the extension picks the
format (.csv or .jsonl).`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simulateFlags.kbPath, "kb", "", "Path to a persisted knowledge base document")
	f.StringVarP(&simulateFlags.transitions, "transitions", "t", "", "Comma-separated transition IDs (default: all)")
	f.StringArrayVar(&simulateFlags.rates, "rate", nil, "Rate override, TRANSITION=RATE (repeatable)")
	f.StringArrayVar(&simulateFlags.markings, "marking", nil, "Marking override, PLACE=TOKENS (repeatable)")
	f.Int64Var(&simulateFlags.seed, "seed", 0, "Random seed for a reproducible run (0: time-based)")
	f.Float64Var(&simulateFlags.maxTime, "max-time", 0, "Simulated time limit (0: configured default)")
	f.IntVar(&simulateFlags.maxSteps, "max-steps", 0, "Step limit (0: configured default)")
	f.StringVarP(&simulateFlags.output, "output", "o", "", "Export the trace (.csv or .jsonl)")
	f.StringVar(&simulateFlags.saveKB, "save-kb", "", "Record the trace and write the knowledge base document here")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kb, err := loadBase(args[0], simulateFlags.kbPath, cfg)
	if err != nil {
		return err
	}

	sn, err := buildSubnet(kb.Net(), splitList(simulateFlags.transitions))
	if err != nil {
		return err
	}

	markingOverrides, err := parseIntPairs(simulateFlags.markings)
	if err != nil {
		return err
	}
	for pid, tokens := range markingOverrides {
		place, ok := sn.Net.Places[pid]
		if !ok {
			return fmt.Errorf("unknown place %s", pid)
		}
		place.Tokens = tokens
	}

	rates := make(map[string]float64, len(sn.Net.Transitions))
	for tid := range sn.Net.Transitions {
		rates[tid] = kb.InferFiringRate(tid).Value
	}
	rateOverrides, err := parseFloatPairs(simulateFlags.rates)
	if err != nil {
		return err
	}
	for tid, rate := range rateOverrides {
		if !sn.Net.IsTransition(tid) {
			return fmt.Errorf("unknown transition %s", tid)
		}
		rates[tid] = rate
	}

	manager := experiment.NewManager(sn)
	id := manager.Save("cli-run", rates)
	snap, err := manager.Load(id)
	if err != nil {
		return err
	}

	result, err := runCache.Run(cmd.Context(), sn, snap, cfg,
		simulateFlags.seed, simulateFlags.maxTime, simulateFlags.maxSteps)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Viability: %s\n", result.Viability)
	fmt.Fprintf(out, "Steps: %d  Simulated time: %.3f\n", result.Steps, result.Elapsed)
	fmt.Fprintln(out, "Final marking:")
	for _, pid := range result.FinalMarking.SortedKeys() {
		fmt.Fprintf(out, "  %s: %d\n", pid, result.FinalMarking[pid])
	}
	if len(result.Firings) > 0 {
		fmt.Fprintln(out, "Firings:")
		tids := make([]string, 0, len(result.Firings))
		for tid := range result.Firings {
			tids = append(tids, tid)
		}
		sort.Strings(tids)
		for _, tid := range tids {
			fmt.Fprintf(out, "  %s: %d (flux %.3f)\n", tid, result.Firings[tid], result.Flux[tid])
		}
	}

	if simulateFlags.output != "" {
		switch strings.ToLower(filepath.Ext(simulateFlags.output)) {
		case ".csv":
			err = eventlog.WriteCSV(simulateFlags.output, result.Trace, eventlog.DefaultCSVConfig())
		case ".jsonl":
			err = eventlog.WriteJSONL(simulateFlags.output, result.Trace)
		default:
			err = fmt.Errorf("unsupported trace format %q (use .csv or .jsonl)", simulateFlags.output)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Trace written to: %s\n", simulateFlags.output)
	}

	if simulateFlags.saveKB != "" {
		if err := kb.UpdateTrace(result.Trace); err != nil {
			return err
		}
		if err := knowledgeWrite(kb, simulateFlags.saveKB); err != nil {
			return err
		}
		fmt.Fprintf(out, "Knowledge base written to: %s\n", simulateFlags.saveKB)
	}
	return nil
}
