// Package table flattens the nested cache into one row per track, which is
// the shape every dashboard chart aggregates over.
package table

import (
	"sort"
	"strings"

	"github.com/ademuri/bandstats/internal/catalog"
	"github.com/ademuri/bandstats/internal/genre"
)

type Row struct {
	Artist     string
	Followers  int64
	Popularity int
	// Genres is the artist's tags joined with ", ".
	Genres     string
	GenreCount int
	BroadGenre string

	Album       string
	ReleaseDate string
	// Year is zero when the release date doesn't parse.
	Year int

	Track            string
	Danceability     float64
	Energy           float64
	Valence          float64
	Acousticness     float64
	Loudness         float64
	Instrumentalness float64
	Liveness         float64
	Speechiness      float64
	Tempo            float64
}

// Flatten produces one row per track, walking artists in sorted name order and
// albums and tracks in cache order. Artists without albums, and albums without
// tracks, contribute no rows.
func Flatten(cache catalog.Cache) []Row {
	rows := []Row{}
	for _, name := range cache.Names() {
		artist := cache[name]
		genres := strings.Join(artist.Genres, ", ")
		broad := genre.Classify(genres)
		for _, album := range artist.Albums {
			year := 0
			if date, err := catalog.ParseReleaseDate(album.ReleaseDate); err == nil {
				year = date.Date.Year()
			}
			for _, track := range album.Tracks {
				f := track.AudioFeatures
				rows = append(rows, Row{
					Artist:           name,
					Followers:        artist.Followers,
					Popularity:       artist.Popularity,
					Genres:           genres,
					GenreCount:       len(artist.Genres),
					BroadGenre:       broad,
					Album:            album.Name,
					ReleaseDate:      album.ReleaseDate,
					Year:             year,
					Track:            track.Name,
					Danceability:     f.Danceability,
					Energy:           f.Energy,
					Valence:          f.Valence,
					Acousticness:     f.Acousticness,
					Loudness:         f.Loudness,
					Instrumentalness: f.Instrumentalness,
					Liveness:         f.Liveness,
					Speechiness:      f.Speechiness,
					Tempo:            f.Tempo,
				})
			}
		}
	}
	return rows
}

// Snapshot is the flattened table the dashboard serves from. It is never
// modified after NewSnapshot returns, so it can be shared between requests.
type Snapshot struct {
	Rows []Row

	genres        []string
	minPopularity int
	maxPopularity int
}

func NewSnapshot(cache catalog.Cache) *Snapshot {
	s := &Snapshot{Rows: Flatten(cache)}

	seen := map[string]bool{}
	for i, row := range s.Rows {
		if !seen[row.BroadGenre] {
			seen[row.BroadGenre] = true
			s.genres = append(s.genres, row.BroadGenre)
		}
		if i == 0 || row.Popularity < s.minPopularity {
			s.minPopularity = row.Popularity
		}
		if i == 0 || row.Popularity > s.maxPopularity {
			s.maxPopularity = row.Popularity
		}
	}
	if len(s.Rows) == 0 {
		s.maxPopularity = 100
	}
	sort.Strings(s.genres)
	return s
}

// Genres returns the distinct broad genres present, sorted.
func (s *Snapshot) Genres() []string {
	return append([]string(nil), s.genres...)
}

// PopularityRange returns the lowest and highest artist popularity in the
// table, or 0 and 100 if it is empty.
func (s *Snapshot) PopularityRange() (lo, hi int) {
	return s.minPopularity, s.maxPopularity
}

// Selection is the user's current filter. A nil bound is unbounded, and no
// genres means every genre.
type Selection struct {
	Genres        []string
	MinPopularity *int
	MaxPopularity *int
}

// Filter returns the rows matching sel as a new slice.
func (s *Snapshot) Filter(sel Selection) []Row {
	var genres map[string]bool
	if len(sel.Genres) > 0 {
		genres = make(map[string]bool, len(sel.Genres))
		for _, g := range sel.Genres {
			genres[g] = true
		}
	}

	rows := []Row{}
	for _, row := range s.Rows {
		if genres != nil && !genres[row.BroadGenre] {
			continue
		}
		if sel.MinPopularity != nil && row.Popularity < *sel.MinPopularity {
			continue
		}
		if sel.MaxPopularity != nil && row.Popularity > *sel.MaxPopularity {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// GenresOnly drops the popularity bounds, for charts that only react to the
// genre filter.
func (sel Selection) GenresOnly() Selection {
	return Selection{Genres: sel.Genres}
}
