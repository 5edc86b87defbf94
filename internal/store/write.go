package store

import (
	"database/sql"
	"fmt"

	"github.com/ademuri/bandstats/internal/catalog"
)

type ImportStats struct {
	Artists int
	Albums  int
	Tracks  int
}

// ImportCache writes every artist in cache in one transaction. An artist that
// was imported before has its rows replaced, so importing the same cache twice
// leaves the database unchanged.
func (s *Store) ImportCache(cache catalog.Cache) (ImportStats, error) {
	var stats ImportStats
	tx, err := s.db.Begin()
	if err != nil {
		return stats, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, key := range cache.Names() {
		artist := cache[key]
		if err := deleteArtist(tx, key); err != nil {
			return stats, err
		}
		if err := insertArtist(tx, key, artist); err != nil {
			return stats, err
		}
		for i, album := range artist.Albums {
			albumID, err := insertAlbum(tx, key, i, album)
			if err != nil {
				return stats, err
			}
			for _, track := range album.Tracks {
				if err := insertTrack(tx, key, albumID, track); err != nil {
					return stats, err
				}
				stats.Tracks++
			}
			stats.Albums++
		}
		stats.Artists++
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("committing transaction: %w", err)
	}
	return stats, nil
}

// Internal helper functions (private, taking *sql.Tx)

func deleteArtist(tx *sql.Tx, key string) error {
	for _, query := range []string{
		"DELETE FROM Track WHERE artist = ?",
		"DELETE FROM Album WHERE artist = ?",
		"DELETE FROM ArtistGenre WHERE artist = ?",
		"DELETE FROM Artist WHERE cache_key = ?",
	} {
		if _, err := tx.Exec(query, key); err != nil {
			return fmt.Errorf("deleting artist %q: %w", key, err)
		}
	}
	return nil
}

func insertArtist(tx *sql.Tx, key string, artist catalog.Artist) error {
	_, err := tx.Exec("INSERT INTO Artist (cache_key, name, spotify_id, followers, popularity) VALUES (?, ?, ?, ?, ?)",
		key, artist.Name, artist.ID, artist.Followers, artist.Popularity)
	if err != nil {
		return fmt.Errorf("inserting artist %q: %w", key, err)
	}
	for i, genre := range artist.Genres {
		_, err := tx.Exec("INSERT OR IGNORE INTO ArtistGenre (artist, genre, position) VALUES (?, ?, ?)", key, genre, i)
		if err != nil {
			return fmt.Errorf("inserting genre %q for %q: %w", genre, key, err)
		}
	}
	return nil
}

func insertAlbum(tx *sql.Tx, artist string, position int, album catalog.Album) (int64, error) {
	var year sql.NullInt64
	var precision sql.NullString
	if date, err := catalog.ParseReleaseDate(album.ReleaseDate); err == nil {
		year = sql.NullInt64{Int64: int64(date.Date.Year()), Valid: true}
		precision = sql.NullString{String: date.Precision(), Valid: true}
	}
	res, err := tx.Exec("INSERT INTO Album (artist, name, release_date, release_year, release_precision, total_tracks, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
		artist, album.Name, album.ReleaseDate, year, precision, album.TotalTracks, position)
	if err != nil {
		return 0, fmt.Errorf("inserting album %q for %q: %w", album.Name, artist, err)
	}
	return res.LastInsertId()
}

func insertTrack(tx *sql.Tx, artist string, albumID int64, track catalog.Track) error {
	var popularity sql.NullInt64
	if track.Popularity != nil {
		popularity = sql.NullInt64{Int64: int64(*track.Popularity), Valid: true}
	}
	f := track.AudioFeatures
	_, err := tx.Exec(`
	INSERT INTO Track (artist, album, name, spotify_id, popularity,
		acousticness, danceability, energy, instrumentalness, liveness,
		loudness, speechiness, tempo, valence)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		artist, albumID, track.Name, track.ID, popularity,
		f.Acousticness, f.Danceability, f.Energy, f.Instrumentalness, f.Liveness,
		f.Loudness, f.Speechiness, f.Tempo, f.Valence)
	if err != nil {
		return fmt.Errorf("inserting track %q for %q: %w", track.Name, artist, err)
	}
	return nil
}
