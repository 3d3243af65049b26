package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/simao-eugenio/shypn-sub018/knowledge"
)

// CSVConfig configures CSV export.
type CSVConfig struct {
	Delimiter rune // default: comma
	// TimePrecision is the number of fractional digits for the time
	// column. Negative means full precision.
	TimePrecision int
}

// DefaultCSVConfig returns the export defaults.
func DefaultCSVConfig() CSVConfig {
	return CSVConfig{Delimiter: ',', TimePrecision: 6}
}

// WriteCSV exports a trace to a CSV file.
func WriteCSV(filename string, tr knowledge.SimulationTrace, config CSVConfig) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := WriteCSVTo(f, tr, config); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSVTo exports a trace as CSV rows. The header is
// run_id,step,time,fired followed by one column per place, places
// sorted for a stable layout; each data row carries the marking after
// that event.
func WriteCSVTo(w io.Writer, tr knowledge.SimulationTrace, config CSVConfig) error {
	events, err := FromTrace(tr)
	if err != nil {
		return err
	}
	cols := placeColumns(events)

	writer := csv.NewWriter(w)
	if config.Delimiter != 0 {
		writer.Comma = config.Delimiter
	}

	header := append([]string{"run_id", "step", "time", "fired"}, cols...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range events {
		row := []string{
			e.RunID,
			strconv.Itoa(e.Step),
			strconv.FormatFloat(e.Time, 'f', config.TimePrecision, 64),
			e.Fired,
		}
		for _, pid := range cols {
			row = append(row, strconv.Itoa(e.Marking[pid]))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing step %d: %w", e.Step, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing: %w", err)
	}
	return nil
}
