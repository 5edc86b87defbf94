package charts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ademuri/bandstats/internal/catalog"
	"github.com/ademuri/bandstats/internal/table"
)

func intPtr(i int) *int {
	return &i
}

func testSnapshot() *table.Snapshot {
	return table.NewSnapshot(catalog.Cache{
		"Queen": {
			Name:       "Queen",
			Followers:  52000000,
			Popularity: 84,
			Genres:     []string{"classic rock", "glam rock"},
			Albums: []catalog.Album{
				{
					Name:        "Jazz",
					ReleaseDate: "1978-11-10",
					Tracks: []catalog.Track{
						{Name: "Mustapha", AudioFeatures: catalog.AudioFeatures{Energy: 0.6, Loudness: -8}},
						{Name: "Fat Bottomed Girls", AudioFeatures: catalog.AudioFeatures{Energy: 0.8, Loudness: -6}},
					},
				},
				{
					Name:        "A Night At The Opera",
					ReleaseDate: "1975",
					Tracks: []catalog.Track{
						{Name: "Death On Two Legs", AudioFeatures: catalog.AudioFeatures{Energy: 0.7, Loudness: -7}},
					},
				},
			},
		},
		"Oregon": {
			Name:       "Oregon",
			Followers:  30000,
			Popularity: 25,
			Genres:     []string{"ecm-style jazz"},
			Albums: []catalog.Album{
				{
					Name:        "Winter Light",
					ReleaseDate: "someday",
					Tracks: []catalog.Track{
						{Name: "Tide Pool", AudioFeatures: catalog.AudioFeatures{Acousticness: 0.9}},
					},
				},
			},
		},
		"Nameless": {
			Name:       "Nameless",
			Followers:  10,
			Popularity: 1,
			Genres:     []string{},
			Albums: []catalog.Album{
				{
					Name:        "Untitled",
					ReleaseDate: "2001-02",
					Tracks:      []catalog.Track{{Name: "Silence"}},
				},
			},
		},
	})
}

func mustMarshal(t *testing.T, fig Figure) string {
	t.Helper()
	b, err := json.Marshal(fig)
	require.NoError(t, err)
	return string(b)
}

func TestEveryChartHandlesEmptySelections(t *testing.T) {
	snapshots := map[string]*table.Snapshot{
		"empty cache": table.NewSnapshot(catalog.Cache{}),
		"full cache":  testSnapshot(),
	}
	selections := map[string]table.Selection{
		"unknown genre":       {Genres: []string{"Polka"}},
		"empty popularity":    {MinPopularity: intPtr(90), MaxPopularity: intPtr(10)},
		"no selection at all": {},
	}
	for snapName, s := range snapshots {
		for selName, sel := range selections {
			for _, entry := range Registry {
				t.Run(snapName+"/"+selName+"/"+entry.ID, func(t *testing.T) {
					fig := entry.Chart(s, sel)
					assert.NotNil(t, fig.Data)
					assert.NotEmpty(t, fig.Layout.Title.Text)
					mustMarshal(t, fig)
				})
			}
		}
	}
}

func TestRegistry(t *testing.T) {
	sentiment, ok := Lookup("sentiment-analysis")
	require.True(t, ok)
	assert.Equal(t, "Sentiment Analysis of Track Valence by Genre", sentiment.Title)

	seen := map[string]bool{}
	for _, entry := range Registry {
		assert.False(t, seen[entry.ID], "duplicate chart id %q", entry.ID)
		seen[entry.ID] = true

		got, ok := Lookup(entry.ID)
		require.True(t, ok)
		assert.Equal(t, entry.ID, got.ID)
	}
	_, ok = Lookup("pie")
	assert.False(t, ok)
}

func TestPopularityFollowers(t *testing.T) {
	fig := PopularityFollowers(testSnapshot(), table.Selection{MinPopularity: intPtr(99)})

	// Popularity bounds don't apply to this chart.
	// Traces follow palette order.
	require.Len(t, fig.Data, 3)
	assert.Equal(t, "Rock", fig.Data[0].Name)
	assert.Equal(t, "blue", fig.Data[0].Marker.Color)
	assert.Equal(t, []any{int64(52000000), int64(52000000), int64(52000000)}, fig.Data[0].X)
	assert.Equal(t, []int{17, 17, 17}, fig.Data[0].Marker.Size)
	assert.Equal(t, "Jazz", fig.Data[1].Name)
	assert.Equal(t, "Other", fig.Data[2].Name)
	assert.Equal(t, &[2]float64{0, 52000000}, fig.Layout.XAxis.Range)
	assert.Equal(t, &[2]float64{0, 100}, fig.Layout.YAxis.Range)
}

func TestTopBands(t *testing.T) {
	s := testSnapshot()

	fig := TopBands(s, table.Selection{MinPopularity: intPtr(20)})
	require.Len(t, fig.Data, 1)
	assert.Equal(t, []any{int64(52000000), int64(30000)}, fig.Data[0].X)
	assert.Equal(t, []any{"Queen", "Oregon"}, fig.Data[0].Y)
	assert.Equal(t, []float64{84, 25}, fig.Data[0].Marker.Color)

	empty := TopBands(s, table.Selection{Genres: []string{"Jazz"}, MinPopularity: intPtr(50)})
	assert.Equal(t, "No Data Available", empty.Layout.Title.Text)
	assert.Empty(t, empty.Data)
}

func TestGenreDiversity(t *testing.T) {
	fig := GenreDiversity(testSnapshot(), table.Selection{})
	require.Len(t, fig.Data, 2)
	assert.Equal(t, "Multi-Genre", fig.Data[0].Name)
	assert.Equal(t, []any{1}, fig.Data[0].Y)
	// Oregon has one tag; Nameless has none.
	assert.Equal(t, "Single-Genre", fig.Data[1].Name)
	assert.Equal(t, []any{2}, fig.Data[1].Y)
}

func TestGenreBar(t *testing.T) {
	fig := GenreBar(testSnapshot(), table.Selection{})
	require.Len(t, fig.Data, 1)
	assert.Equal(t, []any{"Jazz", "Other", "Rock"}, fig.Data[0].Y)
	assert.Equal(t, []any{1, 1, 3}, fig.Data[0].X)
	assert.Equal(t, []string{"orange", "lightgray", "blue"}, fig.Data[0].Marker.Color)
}

func TestSentiment(t *testing.T) {
	s := table.NewSnapshot(catalog.Cache{
		"Queen": {
			Name:   "Queen",
			Genres: []string{"rock"},
			Albums: []catalog.Album{{
				Name: "Jazz",
				Tracks: []catalog.Track{
					{Name: "Bicycle Race", AudioFeatures: catalog.AudioFeatures{Valence: 0.7}},
					{Name: "Jealousy", AudioFeatures: catalog.AudioFeatures{Valence: 0.3}},
					{Name: "Dreamer's Ball", AudioFeatures: catalog.AudioFeatures{Valence: 0.69}},
					{Name: "Dead On Time", AudioFeatures: catalog.AudioFeatures{Valence: 0.29}},
				},
			}},
		},
		"Oregon": {
			Name:   "Oregon",
			Genres: []string{"jazz"},
			Albums: []catalog.Album{{
				Name:   "Winter Light",
				Tracks: []catalog.Track{{Name: "Tide Pool", AudioFeatures: catalog.AudioFeatures{Valence: 0.1}}},
			}},
		},
	})

	fig := Sentiment(s, table.Selection{MinPopularity: intPtr(99)})
	assert.Equal(t, "group", fig.Layout.BarMode)
	require.Len(t, fig.Data, 3)
	assert.Equal(t, "Positive", fig.Data[0].Name)
	assert.Equal(t, "green", fig.Data[0].Marker.Color)
	assert.Equal(t, []any{"Rock"}, fig.Data[0].X)
	assert.Equal(t, []any{1}, fig.Data[0].Y)
	assert.Equal(t, "Neutral", fig.Data[1].Name)
	assert.Equal(t, "orange", fig.Data[1].Marker.Color)
	assert.Equal(t, []any{2}, fig.Data[1].Y)
	assert.Equal(t, "Negative", fig.Data[2].Name)
	assert.Equal(t, "red", fig.Data[2].Marker.Color)
	assert.Equal(t, []any{"Jazz", "Rock"}, fig.Data[2].X)
	assert.Equal(t, []any{1, 1}, fig.Data[2].Y)

	jazz := Sentiment(s, table.Selection{Genres: []string{"Jazz"}})
	require.Len(t, jazz.Data, 1)
	assert.Equal(t, "Negative", jazz.Data[0].Name)
}

func TestTimeTrends(t *testing.T) {
	fig := TimeTrends(testSnapshot(), table.Selection{})

	// Oregon's release date doesn't parse, so there's no Jazz line.
	require.Len(t, fig.Data, 2)
	assert.Equal(t, "Other", fig.Data[0].Name)
	assert.Equal(t, []any{2001}, fig.Data[0].X)
	assert.Equal(t, "Rock", fig.Data[1].Name)
	assert.Equal(t, []any{1975, 1978}, fig.Data[1].X)
	assert.Equal(t, []any{1, 2}, fig.Data[1].Y)
	assert.Equal(t, &[2]float64{1975, 2001}, fig.Layout.XAxis.Range)
	assert.Equal(t, &[2]float64{0, 2}, fig.Layout.YAxis.Range)

	empty := TimeTrends(testSnapshot(), table.Selection{Genres: []string{"Jazz"}})
	assert.Empty(t, empty.Data)
	assert.Equal(t, &[2]float64{1950, 2030}, empty.Layout.XAxis.Range)
}

func TestAudioParallel(t *testing.T) {
	fig := AudioParallel(testSnapshot(), table.Selection{Genres: []string{"Rock", "Jazz"}})

	// One parcoords trace plus a legend trace per genre.
	require.Len(t, fig.Data, 3)
	parcoords := fig.Data[0]
	assert.Equal(t, "parcoords", parcoords.Type)
	require.Len(t, parcoords.Dimensions, 5)
	assert.Equal(t, "Energy", parcoords.Dimensions[0].Label)
	assert.InDeltaSlice(t, []float64{0, 0.7}, parcoords.Dimensions[0].Values, 1e-9)
	assert.Equal(t, "Loudness", parcoords.Dimensions[1].Label)
	assert.InDeltaSlice(t, []float64{0, -7}, parcoords.Dimensions[1].Values, 1e-9)
	assert.Equal(t, &[2]float64{-60, 0}, parcoords.Dimensions[1].Range)
	assert.Equal(t, []float64{0.25, 0.75}, parcoords.Line.Color)
	assert.Equal(t, "Jazz", fig.Data[1].Name)
	assert.Equal(t, "Rock", fig.Data[2].Name)
}

func TestAudioMatrix(t *testing.T) {
	fig := AudioMatrix(testSnapshot(), table.Selection{Genres: []string{"Rock"}})
	require.Len(t, fig.Data, 1)
	trace := fig.Data[0]
	assert.Equal(t, "splom", trace.Type)
	require.Len(t, trace.Dimensions, 5)
	assert.Len(t, trace.Dimensions[0].Values, 3)
	assert.Equal(t, []string{"Queen", "Queen", "Queen"}, trace.Text)
}
