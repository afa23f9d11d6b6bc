package report

import (
	"time"

	"github.com/ppiankov/awscostlens/internal/chart"
)

// Data is the report of one tool run.
type Data struct {
	Tool      string      `json:"tool"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Command   string      `json:"command"`
	Target    Target      `json:"target"`
	Summary   string      `json:"summary"`
	Result    any         `json:"result"`
	Chart     *chart.Spec `json:"-"`
}

// Target identifies the account scope a report covers without exposing it.
type Target struct {
	Type    string `json:"type"`
	URIHash string `json:"uri_hash"`
}

// Reporter writes a report.
type Reporter interface {
	Generate(data Data) error
}
