// Package charts builds the dashboard's figures from a filtered table. Each
// figure is a plotly.js document, so the page can hand the JSON straight to
// Plotly.react.
package charts

type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace covers the handful of plotly trace types the dashboard draws. Fields a
// trace type doesn't use are left zero and omitted.
type Trace struct {
	Type         string      `json:"type"`
	Name         string      `json:"name,omitempty"`
	Mode         string      `json:"mode,omitempty"`
	Orientation  string      `json:"orientation,omitempty"`
	X            []any       `json:"x,omitempty"`
	Y            []any       `json:"y,omitempty"`
	Text         []string    `json:"text,omitempty"`
	TextPosition string      `json:"textposition,omitempty"`
	HoverInfo    string      `json:"hoverinfo,omitempty"`
	Marker       *Marker     `json:"marker,omitempty"`
	Line         *Line       `json:"line,omitempty"`
	Dimensions   []Dimension `json:"dimensions,omitempty"`
	ShowLegend   *bool       `json:"showlegend,omitempty"`
	LegendGroup  string      `json:"legendgroup,omitempty"`
}

type Marker struct {
	// Color is a single colour name or one value per point.
	Color      any     `json:"color,omitempty"`
	Size       []int   `json:"size,omitempty"`
	SizeMode   string  `json:"sizemode,omitempty"`
	ColorScale string  `json:"colorscale,omitempty"`
	ShowScale  *bool   `json:"showscale,omitempty"`
	Opacity    float64 `json:"opacity,omitempty"`
}

// Line is a parcoords line: each line is coloured by looking its value up in
// ColorScale.
type Line struct {
	Color      []float64 `json:"color"`
	ColorScale [][2]any  `json:"colorscale"`
	CMin       float64   `json:"cmin"`
	CMax       float64   `json:"cmax"`
	ShowScale  bool      `json:"showscale"`
}

// Dimension is one axis of a parcoords or splom trace.
type Dimension struct {
	Label  string      `json:"label"`
	Values []float64   `json:"values"`
	Range  *[2]float64 `json:"range,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Axis struct {
	Title         *Title      `json:"title,omitempty"`
	Range         *[2]float64 `json:"range,omitempty"`
	CategoryOrder string      `json:"categoryorder,omitempty"`
	TickAngle     int         `json:"tickangle,omitempty"`
	Visible       *bool       `json:"visible,omitempty"`
}

type Legend struct {
	Title *Title `json:"title,omitempty"`
}

type Layout struct {
	Title      Title   `json:"title"`
	Height     int     `json:"height,omitempty"`
	XAxis      *Axis   `json:"xaxis,omitempty"`
	YAxis      *Axis   `json:"yaxis,omitempty"`
	DragMode   string  `json:"dragmode,omitempty"`
	BarMode    string  `json:"barmode,omitempty"`
	ShowLegend *bool   `json:"showlegend,omitempty"`
	Legend     *Legend `json:"legend,omitempty"`
}

func boolPtr(b bool) *bool {
	return &b
}

func axis(title string) *Axis {
	return &Axis{Title: &Title{Text: title}}
}

func rangedAxis(title string, lo, hi float64) *Axis {
	return &Axis{Title: &Title{Text: title}, Range: &[2]float64{lo, hi}}
}
