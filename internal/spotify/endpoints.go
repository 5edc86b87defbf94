package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type Artist struct {
	ID         string
	Name       string
	Genres     []string
	Popularity int
	Followers  int64
}

type Album struct {
	ID          string
	Name        string
	ReleaseDate string
	TotalTracks int
}

type Track struct {
	ID   string
	Name string
	// Simplified track objects don't carry popularity.
	Popularity *int
}

type AudioFeatures struct {
	ID               string  `json:"id"`
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

type artistSearchResults struct {
	Artists struct {
		Items []struct {
			ID         string   `json:"id"`
			Name       string   `json:"name"`
			Genres     []string `json:"genres"`
			Popularity int      `json:"popularity"`
			Followers  struct {
				Total int64 `json:"total"`
			} `json:"followers"`
		} `json:"items"`
	} `json:"artists"`
}

// SearchArtist returns Spotify's best match for name, or nil if the search
// returned nothing. Ambiguous names are not resolved: the first result wins.
func (c *Client) SearchArtist(ctx context.Context, name string) (*Artist, error) {
	var results artistSearchResults
	err := c.get(ctx, "/search", map[string]string{
		"q":     "artist:" + name,
		"type":  "artist",
		"limit": "1",
	}, &results)
	if err != nil {
		return nil, fmt.Errorf("searching for artist %q: %w", name, err)
	}
	if len(results.Artists.Items) == 0 {
		return nil, nil
	}

	item := results.Artists.Items[0]
	genres := item.Genres
	if genres == nil {
		genres = []string{}
	}
	return &Artist{
		ID:         item.ID,
		Name:       item.Name,
		Genres:     genres,
		Popularity: item.Popularity,
		Followers:  item.Followers.Total,
	}, nil
}

type artistAlbumsPage struct {
	Items []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ReleaseDate string `json:"release_date"`
		TotalTracks int    `json:"total_tracks"`
	} `json:"items"`
}

// ArtistAlbums returns up to limit of the artist's full-length albums, in the
// order Spotify lists them.
func (c *Client) ArtistAlbums(ctx context.Context, artistID string, limit int) ([]Album, error) {
	var page artistAlbumsPage
	err := c.get(ctx, "/artists/"+url.PathEscape(artistID)+"/albums", map[string]string{
		"include_groups": "album",
		"limit":          strconv.Itoa(limit),
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("fetching albums for artist %q: %w", artistID, err)
	}

	albums := make([]Album, 0, len(page.Items))
	for _, item := range page.Items {
		albums = append(albums, Album{
			ID:          item.ID,
			Name:        item.Name,
			ReleaseDate: item.ReleaseDate,
			TotalTracks: item.TotalTracks,
		})
	}
	if len(albums) > limit {
		albums = albums[:limit]
	}
	return albums, nil
}

type albumTracksPage struct {
	Items []struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Popularity *int   `json:"popularity"`
	} `json:"items"`
}

// AlbumTracks returns up to limit tracks from the start of the album.
func (c *Client) AlbumTracks(ctx context.Context, albumID string, limit int) ([]Track, error) {
	var page albumTracksPage
	err := c.get(ctx, "/albums/"+url.PathEscape(albumID)+"/tracks", map[string]string{
		"limit": strconv.Itoa(limit),
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("fetching tracks for album %q: %w", albumID, err)
	}

	tracks := make([]Track, 0, len(page.Items))
	for _, item := range page.Items {
		tracks = append(tracks, Track{
			ID:         item.ID,
			Name:       item.Name,
			Popularity: item.Popularity,
		})
	}
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

type audioFeaturesResults struct {
	AudioFeatures []*AudioFeatures `json:"audio_features"`
}

// AudioFeatures looks up features for up to 100 tracks at once. The result is
// aligned with ids; tracks Spotify has no analysis for are nil.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) ([]*AudioFeatures, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > 100 {
		return nil, fmt.Errorf("at most 100 ids per audio features request, got %d", len(ids))
	}

	var results audioFeaturesResults
	err := c.get(ctx, "/audio-features", map[string]string{
		"ids": strings.Join(ids, ","),
	}, &results)
	if err != nil {
		return nil, fmt.Errorf("fetching audio features for %d tracks: %w", len(ids), err)
	}
	if len(results.AudioFeatures) != len(ids) {
		return nil, fmt.Errorf("expected %d audio features but got %d", len(ids), len(results.AudioFeatures))
	}
	return results.AudioFeatures, nil
}
