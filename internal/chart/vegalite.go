// Package chart builds declarative Vega-Lite chart specifications.
package chart

import "encoding/json"

// Schema is the Vega-Lite schema every spec declares.
const Schema = "https://vega.github.io/schema/vega-lite/v5.json"

const (
	DefaultWidth  = 800
	DefaultHeight = 400
)

// Mark types.
const (
	MarkBar  = "bar"
	MarkLine = "line"
)

// Point is one row of the chart data table.
type Point struct {
	Date   string  `json:"date"`
	Label  string  `json:"label"`
	Series string  `json:"series"`
	Value  float64 `json:"value"`
}

// Spec is a single-view Vega-Lite specification over a table of Points.
type Spec struct {
	Schema   string   `json:"$schema"`
	Title    string   `json:"title,omitempty"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Data     Data     `json:"data"`
	Mark     Mark     `json:"mark"`
	Encoding Encoding `json:"encoding"`
}

type Data struct {
	Values []Point `json:"values"`
}

type Mark struct {
	Type    string `json:"type"`
	Tooltip bool   `json:"tooltip,omitempty"`
	Point   bool   `json:"point,omitempty"`
}

type Encoding struct {
	X       Channel   `json:"x"`
	Y       Channel   `json:"y"`
	Color   *Channel  `json:"color,omitempty"`
	Tooltip []Channel `json:"tooltip,omitempty"`
}

// Channel is a field encoding.
type Channel struct {
	Field  string `json:"field"`
	Type   string `json:"type"`
	Title  string `json:"title,omitempty"`
	Sort   any    `json:"sort,omitempty"`
	Stack  string `json:"stack,omitempty"`
	Format string `json:"format,omitempty"`
}

// IsEmpty reports whether the spec carries no chart.
func (s Spec) IsEmpty() bool {
	return s.Schema == ""
}

// MarshalJSON encodes an empty spec as {}.
func (s Spec) MarshalJSON() ([]byte, error) {
	if s.IsEmpty() {
		return []byte("{}"), nil
	}
	type plain Spec
	return json.Marshal(plain(s))
}

// UnmarshalJSON accepts {} as an empty spec.
func (s *Spec) UnmarshalJSON(b []byte) error {
	type plain Spec
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = Spec(p)
	return nil
}

// NewStackedBar returns a bar chart of value per label, stacked from zero by series.
// The x axis keeps the ISO date order of the points.
func NewStackedBar(title, yTitle string, points []Point) Spec {
	return Spec{
		Schema: Schema,
		Title:  title,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Data:   Data{Values: points},
		Mark:   Mark{Type: MarkBar, Tooltip: true},
		Encoding: Encoding{
			X:     Channel{Field: "label", Type: "ordinal", Title: "Date", Sort: map[string]string{"field": "date"}},
			Y:     Channel{Field: "value", Type: "quantitative", Title: yTitle, Stack: "zero"},
			Color: &Channel{Field: "series", Type: "nominal", Title: "Series"},
			Tooltip: []Channel{
				{Field: "date", Type: "nominal", Title: "Date"},
				{Field: "series", Type: "nominal", Title: "Series"},
				{Field: "value", Type: "quantitative", Title: yTitle, Format: ",.2f"},
			},
		},
	}
}

// NewLine returns a line chart of value over time, one line per series.
func NewLine(title, yTitle string, points []Point) Spec {
	return Spec{
		Schema: Schema,
		Title:  title,
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Data:   Data{Values: points},
		Mark:   Mark{Type: MarkLine, Tooltip: true, Point: true},
		Encoding: Encoding{
			X:     Channel{Field: "date", Type: "temporal", Title: "Time"},
			Y:     Channel{Field: "value", Type: "quantitative", Title: yTitle},
			Color: &Channel{Field: "series", Type: "nominal", Title: "Series"},
			Tooltip: []Channel{
				{Field: "date", Type: "temporal", Title: "Time", Format: "%Y-%m-%d %H:%M"},
				{Field: "value", Type: "quantitative", Title: yTitle, Format: ",.2f"},
			},
		},
	}
}
