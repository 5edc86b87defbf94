package store

import (
	"fmt"
)

type ArtistSummary struct {
	Name       string
	Followers  int64
	Popularity int
	Albums     int
	Tracks     int
}

type GenreCount struct {
	Genre  string
	Tracks int
}

// TopArtists returns the n most-followed artists.
func (s *Store) TopArtists(n int) ([]ArtistSummary, error) {
	query := `
	SELECT Artist.cache_key, Artist.followers, Artist.popularity,
		(SELECT COUNT(*) FROM Album WHERE Album.artist = Artist.cache_key),
		(SELECT COUNT(*) FROM Track WHERE Track.artist = Artist.cache_key)
	FROM Artist
	ORDER BY Artist.followers DESC, Artist.cache_key
	LIMIT ?
	`
	rows, err := s.db.Query(query, n)
	if err != nil {
		return nil, fmt.Errorf("querying top artists: %w", err)
	}
	defer rows.Close()

	var results []ArtistSummary
	for rows.Next() {
		var a ArtistSummary
		if err := rows.Scan(&a.Name, &a.Followers, &a.Popularity, &a.Albums, &a.Tracks); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// GenreTrackCounts counts tracks per raw genre tag. A track counts once for
// each of its artist's tags.
func (s *Store) GenreTrackCounts() ([]GenreCount, error) {
	query := `
	SELECT ArtistGenre.genre, COUNT(Track.id)
	FROM ArtistGenre
	INNER JOIN Track ON Track.artist = ArtistGenre.artist
	GROUP BY ArtistGenre.genre
	ORDER BY COUNT(Track.id) DESC, ArtistGenre.genre
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying genre track counts: %w", err)
	}
	defer rows.Close()

	var results []GenreCount
	for rows.Next() {
		var g GenreCount
		if err := rows.Scan(&g.Genre, &g.Tracks); err != nil {
			return nil, err
		}
		results = append(results, g)
	}
	return results, rows.Err()
}
