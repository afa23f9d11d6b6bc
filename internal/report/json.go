package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONReporter writes the full report, including datapoints, as indented JSON.
type JSONReporter struct {
	Writer io.Writer
}

func (r *JSONReporter) Generate(data Data) error {
	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode JSON report: %w", err)
	}
	return nil
}

// ChartReporter writes only the Vega-Lite chart specification.
type ChartReporter struct {
	Writer io.Writer
}

func (r *ChartReporter) Generate(data Data) error {
	if data.Chart == nil {
		return fmt.Errorf("%s does not produce a chart", data.Command)
	}
	enc := json.NewEncoder(r.Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data.Chart); err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	return nil
}
