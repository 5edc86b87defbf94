package charts

import (
	"fmt"
	"sort"

	"github.com/ademuri/bandstats/internal/genre"
	"github.com/ademuri/bandstats/internal/table"
)

// Chart computes one figure from the snapshot and the current selection. It
// must not modify the snapshot.
type Chart func(s *table.Snapshot, sel table.Selection) Figure

type Entry struct {
	ID    string
	Title string
	Chart Chart
}

// Registry lists every chart in the order the dashboard lays them out.
var Registry = []Entry{
	{"popularity-followers", "Popularity vs Followers", PopularityFollowers},
	{"top-bands", "Top Bands by Followers and Popularity", TopBands},
	{"genre-diversity", "Count of Single-Genre vs. Multi-Genre Bands", GenreDiversity},
	{"genre-bar", "Number of Songs by Genre", GenreBar},
	{"sentiment-analysis", "Sentiment Analysis of Track Valence by Genre", Sentiment},
	{"time-trends", "Tracks Released Over Time by Genre", TimeTrends},
	{"audio-parallel", "Audio Feature Comparison by Genre", AudioParallel},
	{"audio-matrix", "Audio Feature Comparison by Genre", AudioMatrix},
}

// Lookup returns the chart registered under id.
func Lookup(id string) (Entry, bool) {
	for _, e := range Registry {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

const (
	defaultHeight = 600
	maxTopBands   = 10
)

// Used for the time axis when no row has a parseable release year.
var defaultYears = [2]float64{1950, 2030}

// genresPresent returns the broad genres that occur in rows, in palette order.
func genresPresent(rows []table.Row) []string {
	seen := map[string]bool{}
	for _, row := range rows {
		seen[row.BroadGenre] = true
	}
	var genres []string
	for _, g := range genre.Categories() {
		if seen[g] {
			genres = append(genres, g)
		}
	}
	return genres
}

// PopularityFollowers scatters every track's artist by followers and
// popularity, one trace per broad genre. Only the genre filter applies.
func PopularityFollowers(s *table.Snapshot, sel table.Selection) Figure {
	rows := s.Filter(sel.GenresOnly())

	// The x range covers the whole table so it doesn't jump around as the
	// filter changes.
	var maxFollowers int64
	for _, row := range s.Rows {
		if row.Followers > maxFollowers {
			maxFollowers = row.Followers
		}
	}
	xMax := float64(maxFollowers)
	if xMax == 0 {
		xMax = 1
	}

	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:    Title{Text: "Popularity vs Followers"},
			Height:   defaultHeight,
			XAxis:    rangedAxis("Followers", 0, xMax),
			YAxis:    rangedAxis("Popularity", 0, 100),
			DragMode: "zoom",
		},
	}
	for _, g := range genresPresent(rows) {
		trace := Trace{
			Type:   "scatter",
			Mode:   "markers",
			Name:   g,
			Marker: &Marker{Color: genre.Color(g), SizeMode: "area"},
		}
		for _, row := range rows {
			if row.BroadGenre != g {
				continue
			}
			trace.X = append(trace.X, row.Followers)
			trace.Y = append(trace.Y, row.Popularity)
			trace.Text = append(trace.Text, row.Artist)
			trace.Marker.Size = append(trace.Marker.Size, markerSize(row.Popularity))
		}
		fig.Data = append(fig.Data, trace)
	}
	return fig
}

// markerSize scales a 0-100 popularity to a marker diameter.
func markerSize(popularity int) int {
	if popularity < 0 {
		popularity = 0
	}
	return 4 + popularity*16/100
}

// TopBands is a horizontal bar chart of the ten most-followed bands, coloured
// by popularity. Both filters apply. An empty selection gets a placeholder
// figure rather than an empty bar chart.
func TopBands(s *table.Snapshot, sel table.Selection) Figure {
	rows := s.Filter(sel)
	if len(rows) == 0 {
		return Figure{
			Data: []Trace{},
			Layout: Layout{
				Title: Title{Text: "No Data Available"},
				XAxis: axis("Followers"),
				YAxis: axis("Band Name"),
			},
		}
	}

	bands := table.ByBand(rows)
	if len(bands) > maxTopBands {
		bands = bands[:maxTopBands]
	}
	trace := Trace{
		Type:        "bar",
		Orientation: "h",
		Marker: &Marker{
			ColorScale: "Viridis",
			ShowScale:  boolPtr(true),
		},
	}
	var colors []float64
	for _, b := range bands {
		trace.X = append(trace.X, b.Followers)
		trace.Y = append(trace.Y, b.Artist)
		trace.Text = append(trace.Text, fmt.Sprint(b.Followers))
		colors = append(colors, float64(b.Popularity))
	}
	trace.Marker.Color = colors

	yAxis := axis("Band Name")
	yAxis.CategoryOrder = "total ascending"
	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title:  Title{Text: "Top Bands by Followers and Popularity"},
			Height: defaultHeight,
			XAxis:  axis("Followers"),
			YAxis:  yAxis,
		},
	}
}

// GenreDiversity counts distinct bands with a single genre tag against bands
// with several. Bands with no tags count as single-genre. Only the genre
// filter applies.
func GenreDiversity(s *table.Snapshot, sel table.Selection) Figure {
	rows := s.Filter(sel.GenresOnly())

	var single, multi int
	for _, b := range table.ByBand(rows) {
		if b.GenreCount > 1 {
			multi++
		} else {
			single++
		}
	}

	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:  Title{Text: "Count of Single-Genre vs. Multi-Genre Bands"},
			Height: defaultHeight,
			XAxis:  axis("Genre Diversity"),
			YAxis:  axis("Number of Bands"),
			Legend: &Legend{Title: &Title{Text: "Diversity Type"}},
		},
	}
	for _, c := range []struct {
		name  string
		count int
		color string
	}{
		{"Multi-Genre", multi, "orange"},
		{"Single-Genre", single, "blue"},
	} {
		if c.count == 0 {
			continue
		}
		fig.Data = append(fig.Data, Trace{
			Type:   "bar",
			Name:   c.name,
			X:      []any{c.name},
			Y:      []any{c.count},
			Marker: &Marker{Color: c.color},
		})
	}
	return fig
}

// GenreBar counts tracks per broad genre. Only the genre filter applies.
func GenreBar(s *table.Snapshot, sel table.Selection) Figure {
	rows := s.Filter(sel.GenresOnly())

	yAxis := axis("Genre")
	yAxis.CategoryOrder = "total ascending"
	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:      Title{Text: "Number of Songs by Genre"},
			Height:     defaultHeight,
			XAxis:      axis("Number of Songs"),
			YAxis:      yAxis,
			ShowLegend: boolPtr(false),
		},
	}
	stats := table.ByGenre(rows)
	if len(stats) == 0 {
		return fig
	}

	trace := Trace{
		Type:         "bar",
		Orientation:  "h",
		TextPosition: "outside",
	}
	var colors []string
	for _, g := range stats {
		trace.X = append(trace.X, g.Tracks)
		trace.Y = append(trace.Y, g.Genre)
		trace.Text = append(trace.Text, fmt.Sprint(g.Tracks))
		colors = append(colors, genre.Color(g.Genre))
	}
	trace.Marker = &Marker{Color: colors}
	fig.Data = append(fig.Data, trace)
	return fig
}

var sentimentColors = map[string]string{
	table.Positive: "green",
	table.Neutral:  "orange",
	table.Negative: "red",
}

// Sentiment counts each genre's tracks per valence bucket as grouped bars, one
// trace per bucket. Only the genre filter applies.
func Sentiment(s *table.Snapshot, sel table.Selection) Figure {
	counts := table.ByGenreAndSentiment(s.Filter(sel.GenresOnly()))

	xAxis := axis("Genre")
	xAxis.TickAngle = -45
	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:   Title{Text: "Sentiment Analysis of Track Valence by Genre"},
			Height:  defaultHeight,
			XAxis:   xAxis,
			YAxis:   axis("Number of Tracks"),
			BarMode: "group",
			Legend:  &Legend{Title: &Title{Text: "Sentiment"}},
		},
	}

	traces := map[string]*Trace{}
	for _, c := range counts {
		t, ok := traces[c.Sentiment]
		if !ok {
			t = &Trace{
				Type:   "bar",
				Name:   c.Sentiment,
				Marker: &Marker{Color: sentimentColors[c.Sentiment]},
			}
			traces[c.Sentiment] = t
		}
		t.X = append(t.X, c.Genre)
		t.Y = append(t.Y, c.Tracks)
	}
	for _, name := range table.Sentiments {
		if t, ok := traces[name]; ok {
			fig.Data = append(fig.Data, *t)
		}
	}
	return fig
}

// TimeTrends plots tracks released per year, one line per broad genre. Tracks
// whose release date didn't parse are left out. Only the genre filter applies.
func TimeTrends(s *table.Snapshot, sel table.Selection) Figure {
	counts := table.ByYearAndGenre(s.Filter(sel.GenresOnly()))

	years := defaultYears
	maxTracks := 0
	traces := map[string]*Trace{}
	for i, c := range counts {
		if i == 0 || float64(c.Year) < years[0] {
			years[0] = float64(c.Year)
		}
		if i == 0 || float64(c.Year) > years[1] {
			years[1] = float64(c.Year)
		}
		if c.Tracks > maxTracks {
			maxTracks = c.Tracks
		}
		t, ok := traces[c.Genre]
		if !ok {
			t = &Trace{
				Type:   "scatter",
				Mode:   "lines",
				Name:   c.Genre,
				Marker: &Marker{Color: genre.Color(c.Genre)},
			}
			traces[c.Genre] = t
		}
		t.X = append(t.X, c.Year)
		t.Y = append(t.Y, c.Tracks)
	}
	yMax := float64(maxTracks)
	if yMax == 0 {
		yMax = 1
	}

	names := make([]string, 0, len(traces))
	for name := range traces {
		names = append(names, name)
	}
	sort.Strings(names)
	data := []Trace{}
	for _, name := range names {
		data = append(data, *traces[name])
	}

	return Figure{
		Data: data,
		Layout: Layout{
			Title:    Title{Text: "Tracks Released Over Time by Genre"},
			Height:   defaultHeight,
			XAxis:    rangedAxis("Year", years[0], years[1]),
			YAxis:    rangedAxis("Number of Tracks Released", 0, yMax),
			DragMode: "zoom",
		},
	}
}

var featureRanges = []struct {
	label string
	lo    float64
	hi    float64
	value func(table.Features) float64
}{
	{"Energy", 0, 1, func(f table.Features) float64 { return f.Energy }},
	{"Loudness", -60, 0, func(f table.Features) float64 { return f.Loudness }},
	{"Valence", 0, 1, func(f table.Features) float64 { return f.Valence }},
	{"Danceability", 0, 1, func(f table.Features) float64 { return f.Danceability }},
	{"Acousticness", 0, 1, func(f table.Features) float64 { return f.Acousticness }},
}

// AudioParallel draws one parallel-coordinates line per broad genre through
// the genre's mean of each charted feature. Both filters apply.
func AudioParallel(s *table.Snapshot, sel table.Selection) Figure {
	stats := table.ByGenre(s.Filter(sel))

	// Each genre gets its own band of the colour scale, and its line's value
	// sits in the middle of that band.
	n := float64(len(stats))
	line := &Line{Color: []float64{}, ColorScale: [][2]any{}, CMin: 0, CMax: 1}
	for i, g := range stats {
		c := genre.Color(g.Genre)
		line.ColorScale = append(line.ColorScale, [2]any{float64(i) / n, c}, [2]any{float64(i+1) / n, c})
		line.Color = append(line.Color, (float64(i)+0.5)/n)
	}
	if len(stats) == 0 {
		line.ColorScale = [][2]any{{0, genre.Color(genre.Other)}, {1, genre.Color(genre.Other)}}
	}

	var dims []Dimension
	for _, f := range featureRanges {
		dim := Dimension{Label: f.label, Values: []float64{}, Range: &[2]float64{f.lo, f.hi}}
		for _, g := range stats {
			dim.Values = append(dim.Values, f.value(g.Mean))
		}
		dims = append(dims, dim)
	}

	data := []Trace{{Type: "parcoords", Line: line, Dimensions: dims}}
	// Parcoords traces have no legend, so each genre gets an empty scatter
	// trace to carry its legend entry.
	for _, g := range stats {
		data = append(data, Trace{
			Type:        "scatter",
			Mode:        "markers",
			Name:        g.Genre,
			X:           []any{nil},
			Y:           []any{nil},
			Marker:      &Marker{Color: genre.Color(g.Genre)},
			LegendGroup: "Genres",
			ShowLegend:  boolPtr(true),
			HoverInfo:   "skip",
		})
	}

	return Figure{
		Data: data,
		Layout: Layout{
			Title:      Title{Text: "Audio Feature Comparison by Genre"},
			Height:     defaultHeight,
			ShowLegend: boolPtr(true),
			XAxis:      &Axis{Visible: boolPtr(false)},
			YAxis:      &Axis{Visible: boolPtr(false)},
		},
	}
}

// AudioMatrix is a scatter matrix over the charted features with one splom
// trace per broad genre. Only the genre filter applies.
func AudioMatrix(s *table.Snapshot, sel table.Selection) Figure {
	rows := s.Filter(sel.GenresOnly())

	data := []Trace{}
	for _, g := range genresPresent(rows) {
		var group []table.Row
		for _, row := range rows {
			if row.BroadGenre == g {
				group = append(group, row)
			}
		}
		trace := Trace{
			Type:   "splom",
			Name:   g,
			Marker: &Marker{Color: genre.Color(g), Opacity: 0.7},
		}
		for _, f := range featureRanges {
			dim := Dimension{Label: f.label}
			for _, row := range group {
				dim.Values = append(dim.Values, f.value(features(row)))
			}
			trace.Dimensions = append(trace.Dimensions, dim)
		}
		for _, row := range group {
			trace.Text = append(trace.Text, row.Artist)
		}
		data = append(data, trace)
	}

	return Figure{
		Data: data,
		Layout: Layout{
			Title:  Title{Text: "Audio Feature Comparison by Genre"},
			Height: 800,
			Legend: &Legend{Title: &Title{Text: "Genres"}},
		},
	}
}

func features(row table.Row) table.Features {
	return table.Features{
		Energy:       row.Energy,
		Loudness:     row.Loudness,
		Valence:      row.Valence,
		Danceability: row.Danceability,
		Acousticness: row.Acousticness,
	}
}
