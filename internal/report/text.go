package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// TextReporter writes the human-readable summary.
type TextReporter struct {
	Writer io.Writer
}

func (r *TextReporter) Generate(data Data) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s\n", data.Tool, data.Version, data.Command)
	fmt.Fprintf(&b, "Generated %s\n\n", data.Timestamp.UTC().Format(time.RFC3339))
	b.WriteString("Summary\n")
	b.WriteString(strings.Repeat("-", len("Summary")) + "\n")
	if data.Summary == "" {
		b.WriteString("No results.\n")
	} else {
		b.WriteString(strings.TrimRight(data.Summary, "\n") + "\n")
	}
	if data.Chart != nil && !data.Chart.IsEmpty() {
		b.WriteString("\nUse --format chart to export the Vega-Lite chart.\n")
	}

	if _, err := io.WriteString(r.Writer, b.String()); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}
