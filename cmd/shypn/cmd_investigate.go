package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simao-eugenio/shypn-sub018/diagnosis"
)

var investigateFlags struct {
	kbPath      string
	transitions string
	output      string
}

var investigateCmd = &cobra.Command{
	Use:   "investigate <model.json>",
	Short: "Diagnose a selected sub-region of the model",
	Long: `Run the diagnosis analyzers over the localities of the named
transitions. A single transition runs the locality checks only; two or
more extract a subnet and run all four analysis levels.`,
	Args: cobra.ExactArgs(1),
	RunE: runInvestigate,
}

func init() {
	f := investigateCmd.Flags()
	f.StringVar(&investigateFlags.kbPath, "kb", "", "Path to a persisted knowledge base document")
	f.StringVarP(&investigateFlags.transitions, "transitions", "t", "", "Comma-separated transition IDs (default: all)")
	f.StringVarP(&investigateFlags.output, "output", "o", "", "Write the full report as JSON")
}

func runInvestigate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	kb, err := loadBase(args[0], investigateFlags.kbPath, cfg)
	if err != nil {
		return err
	}

	transitions := splitList(investigateFlags.transitions)
	if len(transitions) == 0 {
		transitions = kb.Net().TransitionIDs()
	}
	engine := diagnosis.NewEngine(kb, cfg)

	var report *diagnosis.Report
	if len(transitions) == 1 {
		report, err = engine.InvestigateLocality(transitions[0])
	} else {
		report, err = engine.InvestigateSubnet(transitions)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Issues: %d (%d errors, %d warnings)\n",
		len(report.Issues),
		len(report.IssuesBySeverity(diagnosis.SeverityError)),
		len(report.IssuesBySeverity(diagnosis.SeverityWarning)))
	for _, issue := range report.Issues {
		fmt.Fprintf(out, "  [%s/%s] %s\n", issue.Severity, issue.Category, issue.Message)
	}

	ranked := report.RankedSuggestions()
	fmt.Fprintf(out, "Suggestions: %d\n", len(ranked))
	for _, s := range ranked {
		marker := " "
		if s.Priority == diagnosis.PriorityCritical {
			marker = "!"
		}
		fmt.Fprintf(out, " %s %s %s = %g (confidence %.2f)\n", marker, s.Action, s.TargetID, s.Value, s.Confidence)
		for _, reason := range s.Reasoning {
			fmt.Fprintf(out, "     %s\n", reason)
		}
	}

	if investigateFlags.output != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		if err := os.WriteFile(investigateFlags.output, data, 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "Report written to: %s\n", investigateFlags.output)
	}
	return nil
}
