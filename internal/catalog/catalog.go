// Package catalog defines the on-disk cache of artist metadata and audio
// features, and the rules for reading and rewriting it.
package catalog

import (
	"sort"
)

// Cache maps the artist name used in the input list to the fetched record.
type Cache map[string]Artist

type Artist struct {
	Name       string   `json:"name"`
	ID         string   `json:"id"`
	Followers  int64    `json:"followers"`
	Popularity int      `json:"popularity"`
	Genres     []string `json:"genres"`
	Albums     []Album  `json:"albums"`
}

type Album struct {
	Name        string  `json:"album_name"`
	ReleaseDate string  `json:"release_date"`
	TotalTracks int     `json:"total_tracks"`
	Tracks      []Track `json:"tracks"`
}

type Track struct {
	Name string `json:"track_name"`
	ID   string `json:"track_id"`
	// Popularity is not returned by the simplified track objects of the
	// album tracks endpoint, so it is usually null.
	Popularity    *int          `json:"popularity"`
	AudioFeatures AudioFeatures `json:"audio_features"`
}

type AudioFeatures struct {
	Acousticness     float64 `json:"acousticness"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Loudness         float64 `json:"loudness"`
	Speechiness      float64 `json:"speechiness"`
	Tempo            float64 `json:"tempo"`
	Valence          float64 `json:"valence"`
}

func (c Cache) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// Names returns the cache keys in sorted order.
func (c Cache) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TrackCount returns the number of tracks across all of the artist's albums.
func (a Artist) TrackCount() int {
	count := 0
	for _, album := range a.Albums {
		count += len(album.Tracks)
	}
	return count
}
