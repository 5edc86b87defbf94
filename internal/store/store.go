// Package store exports the JSON cache into a SQLite database so it can be
// queried with SQL.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS Artist (
  cache_key TEXT PRIMARY KEY,
  name TEXT,
  spotify_id TEXT,
  followers INTEGER,
  popularity INTEGER
);

CREATE TABLE IF NOT EXISTS ArtistGenre (
  artist TEXT,
  genre TEXT,
  position INTEGER,
  FOREIGN KEY (artist) REFERENCES Artist(cache_key),
  PRIMARY KEY (artist, genre)
);

CREATE TABLE IF NOT EXISTS Album (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  artist TEXT,
  name TEXT,
  release_date TEXT,
  total_tracks INTEGER,
  position INTEGER,
  FOREIGN KEY (artist) REFERENCES Artist(cache_key)
);

CREATE TABLE IF NOT EXISTS Track (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  artist TEXT,
  album INTEGER,
  name TEXT,
  spotify_id TEXT,
  popularity INTEGER,
  acousticness REAL,
  danceability REAL,
  energy REAL,
  instrumentalness REAL,
  liveness REAL,
  loudness REAL,
  speechiness REAL,
  tempo REAL,
  valence REAL,
  FOREIGN KEY (artist) REFERENCES Artist(cache_key),
  FOREIGN KEY (album) REFERENCES Album(id)
);
`

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema adds columns introduced after the first version of the schema,
// so databases exported by older versions can be imported into again.
func ensureSchema(db *sql.DB) error {
	// Album.release_year
	if err := addColumnIfNotExists(db, "Album", "release_year", "INTEGER"); err != nil {
		return err
	}
	// Album.release_precision
	if err := addColumnIfNotExists(db, "Album", "release_precision", "TEXT"); err != nil {
		return err
	}
	return nil
}

func addColumnIfNotExists(db *sql.DB, table, column, typeDef string) error {
	exists, err := columnExists(db, table, column)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if !exists {
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, typeDef)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("adding column %s.%s: %w", table, column, err)
		}
	}
	return nil
}

func columnExists(db *sql.DB, tableName string, columnName string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var ctype string
		var notnull int
		var dfltValue interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == columnName {
			return true, nil
		}
	}
	return false, rows.Err()
}
