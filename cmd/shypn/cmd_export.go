package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simao-eugenio/shypn-sub018/eventlog"
	"github.com/simao-eugenio/shypn-sub018/knowledge"
)

var exportFlags struct {
	traceID string
	output  string
}

var exportCmd = &cobra.Command{
	Use:   "export <kb.json>",
	Short: "Export a recorded simulation trace as CSV or JSONL",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.traceID, "trace", "", "Trace ID to export (default: latest)")
	f.StringVarP(&exportFlags.output, "output", "o", "", "Output file (.csv or .jsonl)")
	exportCmd.MarkFlagRequired("output")
}

func runExport(cmd *cobra.Command, args []string) error {
	doc, err := knowledge.ReadJSON(args[0])
	if err != nil {
		return err
	}
	if len(doc.Traces) == 0 {
		return fmt.Errorf("%s holds no simulation traces", args[0])
	}

	trace := doc.Traces[len(doc.Traces)-1]
	if exportFlags.traceID != "" {
		found := false
		for _, tr := range doc.Traces {
			if tr.ID == exportFlags.traceID {
				trace = tr
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("trace %s not found", exportFlags.traceID)
		}
	}

	switch strings.ToLower(filepath.Ext(exportFlags.output)) {
	case ".csv":
		err = eventlog.WriteCSV(exportFlags.output, trace, eventlog.DefaultCSVConfig())
	case ".jsonl":
		err = eventlog.WriteJSONL(exportFlags.output, trace)
	default:
		err = fmt.Errorf("unsupported trace format %q (use .csv or .jsonl)", exportFlags.output)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Trace %s written to: %s\n", trace.ID, exportFlags.output)
	return nil
}
