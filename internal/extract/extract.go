// Package extract runs the sequential fetch-and-cache loop: for each artist
// that isn't cached yet it pulls metadata, a handful of albums and tracks, and
// the tracks' audio features, then rewrites the cache file.
package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ademuri/bandstats/internal/catalog"
	"github.com/ademuri/bandstats/internal/spotify"
)

const (
	DefaultMaxAlbums         = 5
	DefaultMaxTracksPerAlbum = 5
)

// API is the subset of the Spotify client the extractor needs.
type API interface {
	SearchArtist(ctx context.Context, name string) (*spotify.Artist, error)
	ArtistAlbums(ctx context.Context, artistID string, limit int) ([]spotify.Album, error)
	AlbumTracks(ctx context.Context, albumID string, limit int) ([]spotify.Track, error)
	AudioFeatures(ctx context.Context, ids []string) ([]*spotify.AudioFeatures, error)
}

type Extractor struct {
	API       API
	CachePath string

	// Zero means the Default* constants.
	MaxAlbums         int
	MaxTracksPerAlbum int

	// Force re-fetches artists that are already cached.
	Force bool

	Log *zap.Logger
}

// Result summarises one extraction run.
type Result struct {
	Fetched []string
	Skipped []string
	// NotFound lists names the search returned nothing for. Nothing is written
	// for them, so they are searched again on the next run.
	NotFound []string
	// DroppedTracks counts tracks left out because Spotify had no audio
	// features for them.
	DroppedTracks int
}

// Run fetches every name that isn't in the cache yet, saving the cache after
// each artist. If ctx is canceled, Run stops before the next API call and
// returns the context's error; artists saved so far stay saved.
func (e *Extractor) Run(ctx context.Context, names []string) (Result, error) {
	var result Result
	log := e.logger()

	cache, err := catalog.Load(e.CachePath, log)
	if err != nil {
		return result, err
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if cache.Has(name) && !e.Force {
			log.Info("using cached data", zap.String("artist", name))
			result.Skipped = append(result.Skipped, name)
			continue
		}

		artist, dropped, err := e.fetchArtist(ctx, name)
		if err != nil {
			return result, fmt.Errorf("fetching %q: %w", name, err)
		}
		if artist == nil {
			log.Warn("artist not found", zap.String("artist", name))
			result.NotFound = append(result.NotFound, name)
			continue
		}
		result.DroppedTracks += dropped

		cache[name] = *artist
		if err := catalog.Save(e.CachePath, cache); err != nil {
			return result, err
		}
		result.Fetched = append(result.Fetched, name)
		log.Info("data fetched",
			zap.String("artist", name),
			zap.Int("albums", len(artist.Albums)),
			zap.Int("tracks", artist.TrackCount()))
	}

	return result, nil
}

// fetchArtist returns nil when the search has no match. The int is the number
// of tracks dropped for lack of audio features.
func (e *Extractor) fetchArtist(ctx context.Context, name string) (*catalog.Artist, int, error) {
	found, err := e.API.SearchArtist(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	if found == nil {
		return nil, 0, nil
	}

	artist := &catalog.Artist{
		Name:       found.Name,
		ID:         found.ID,
		Followers:  found.Followers,
		Popularity: found.Popularity,
		Genres:     found.Genres,
		Albums:     []catalog.Album{},
	}
	if artist.Genres == nil {
		artist.Genres = []string{}
	}

	albums, err := e.API.ArtistAlbums(ctx, found.ID, e.maxAlbums())
	if err != nil {
		return nil, 0, err
	}

	dropped := 0
	for _, album := range albums {
		tracks, n, err := e.fetchTracks(ctx, album)
		if err != nil {
			return nil, 0, err
		}
		dropped += n
		artist.Albums = append(artist.Albums, catalog.Album{
			Name:        album.Name,
			ReleaseDate: album.ReleaseDate,
			TotalTracks: album.TotalTracks,
			Tracks:      tracks,
		})
	}
	return artist, dropped, nil
}

func (e *Extractor) fetchTracks(ctx context.Context, album spotify.Album) ([]catalog.Track, int, error) {
	tracks, err := e.API.AlbumTracks(ctx, album.ID, e.maxTracks())
	if err != nil {
		return nil, 0, err
	}
	ids := make([]string, len(tracks))
	for i, track := range tracks {
		ids[i] = track.ID
	}
	features, err := e.API.AudioFeatures(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	result := []catalog.Track{}
	dropped := 0
	for i, track := range tracks {
		if i >= len(features) || features[i] == nil {
			e.logger().Debug("no audio features, dropping track",
				zap.String("album", album.Name), zap.String("track", track.Name))
			dropped++
			continue
		}
		f := features[i]
		result = append(result, catalog.Track{
			Name:       track.Name,
			ID:         track.ID,
			Popularity: track.Popularity,
			AudioFeatures: catalog.AudioFeatures{
				Acousticness:     f.Acousticness,
				Danceability:     f.Danceability,
				Energy:           f.Energy,
				Instrumentalness: f.Instrumentalness,
				Liveness:         f.Liveness,
				Loudness:         f.Loudness,
				Speechiness:      f.Speechiness,
				Tempo:            f.Tempo,
				Valence:          f.Valence,
			},
		})
	}
	return result, dropped, nil
}

func (e *Extractor) maxAlbums() int {
	if e.MaxAlbums <= 0 {
		return DefaultMaxAlbums
	}
	return e.MaxAlbums
}

func (e *Extractor) maxTracks() int {
	if e.MaxTracksPerAlbum <= 0 {
		return DefaultMaxTracksPerAlbum
	}
	return e.MaxTracksPerAlbum
}

func (e *Extractor) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}
