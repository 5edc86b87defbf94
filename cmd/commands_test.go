package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/bandstats/internal/catalog"
)

func testCache() catalog.Cache {
	return catalog.Cache{
		"Queen": {
			Name:       "Queen",
			ID:         "q",
			Followers:  52000000,
			Popularity: 84,
			Genres:     []string{"classic rock", "glam rock"},
			Albums: []catalog.Album{
				{
					Name:        "Jazz",
					ReleaseDate: "1978-11-10",
					TotalTracks: 13,
					Tracks: []catalog.Track{
						{Name: "Mustapha", ID: "t1", AudioFeatures: catalog.AudioFeatures{Energy: 0.5}},
						{Name: "Fat Bottomed Girls", ID: "t2", AudioFeatures: catalog.AudioFeatures{Energy: 1}},
					},
				},
			},
		},
		"Oregon": {
			Name:       "Oregon",
			ID:         "o",
			Followers:  30000,
			Popularity: 25,
			Genres:     []string{"ecm-style jazz"},
			Albums: []catalog.Album{
				{
					Name:        "Winter Light",
					ReleaseDate: "1974",
					Tracks:      []catalog.Track{{Name: "Tide Pool", ID: "t3"}},
				},
			},
		},
	}
}

func writeTestCache(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spotify_cache.json")
	if err := catalog.Save(path, testCache()); err != nil {
		t.Fatalf("Save(%q) error: %v", path, err)
	}
	return path
}

func fakeSpotify(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("GET /v1/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("q") == "artist:Oregon" {
			w.Write([]byte(`{"artists":{"items":[{"id":"o","name":"Oregon","genres":["ecm-style jazz"],"popularity":25,"followers":{"total":30000}}]}}`))
			return
		}
		w.Write([]byte(`{"artists":{"items":[]}}`))
	})
	mux.HandleFunc("GET /v1/artists/o/albums", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"a","name":"Winter Light","release_date":"1974","total_tracks":8}]}`))
	})
	mux.HandleFunc("GET /v1/albums/a/tracks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"t3","name":"Tide Pool"},{"id":"t4","name":"Touchstone"}]}`))
	})
	mux.HandleFunc("GET /v1/audio-features", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"audio_features":[{"id":"t3","acousticness":0.9},null]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRunExtract(t *testing.T) {
	server := fakeSpotify(t)
	dir := t.TempDir()
	artistsFile := filepath.Join(dir, "artists.txt")
	if err := os.WriteFile(artistsFile, []byte("Oregon\nNobody\nOregon\n"), 0644); err != nil {
		t.Fatal(err)
	}
	config := ExtractConfig{
		CachePath:    filepath.Join(dir, "cache.json"),
		ClientID:     "id",
		ClientSecret: "secret",
		ArtistsFile:  artistsFile,
		APIURL:       server.URL + "/v1",
		AccountsURL:  server.URL,
	}

	var out bytes.Buffer
	if err := runExtract(context.Background(), &out, config, zap.NewNop()); err != nil {
		t.Fatalf("runExtract() error: %v", err)
	}
	if !strings.Contains(out.String(), "Fetched 1 bands, 0 already cached, 1 not found, 1 tracks dropped") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Not found: Nobody") {
		t.Errorf("Expected the missing band to be listed:\n%s", out.String())
	}

	cache, err := catalog.Load(config.CachePath, zap.NewNop())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := cache["Oregon"].TrackCount(); got != 1 {
		t.Errorf("Expected 1 track for Oregon, got %d", got)
	}

	out.Reset()
	if err := runExtract(context.Background(), &out, config, zap.NewNop()); err != nil {
		t.Fatalf("runExtract() error: %v", err)
	}
	if !strings.Contains(out.String(), "Fetched 0 bands, 1 already cached") {
		t.Errorf("Expected the second run to use the cache:\n%s", out.String())
	}
}

func TestRunExtractRequiresCredentials(t *testing.T) {
	var out bytes.Buffer
	err := runExtract(context.Background(), &out, ExtractConfig{CachePath: filepath.Join(t.TempDir(), "cache.json")}, zap.NewNop())
	if err == nil {
		t.Fatalf("runExtract should have errored without credentials")
	}
	if !strings.Contains(err.Error(), "client_id") {
		t.Errorf("Expected the error to mention client_id: %v", err)
	}
}

func TestRunSummaryTable(t *testing.T) {
	path := writeTestCache(t)

	var out bytes.Buffer
	if err := runSummary(&out, path, "table", zap.NewNop()); err != nil {
		t.Fatalf("runSummary() error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Jazz", "Rock", "0.750", "Found 2 artists with 3 tracks and 52,030,000 followers"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected summary to contain %q:\n%s", want, got)
		}
	}
}

func TestRunSummaryYaml(t *testing.T) {
	path := writeTestCache(t)

	var out bytes.Buffer
	if err := runSummary(&out, path, "yaml", zap.NewNop()); err != nil {
		t.Fatalf("runSummary() error: %v", err)
	}

	var summary Summary
	if err := yaml.Unmarshal(out.Bytes(), &summary); err != nil {
		t.Fatalf("yaml.Unmarshal error: %v\n%s", err, out.String())
	}
	if summary.Artists != 2 || summary.Tracks != 3 || summary.Followers != 52030000 {
		t.Errorf("Unexpected totals: %+v", summary)
	}
	if len(summary.Genres) != 2 || summary.Genres[1].Genre != "Rock" || summary.Genres[1].Mean.Energy != 0.75 {
		t.Errorf("Unexpected genres: %+v", summary.Genres)
	}
}

func TestRunSummaryUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	if err := runSummary(&out, writeTestCache(t), "csv", zap.NewNop()); err == nil {
		t.Fatalf("runSummary should have errored with an unknown format")
	}
}

func TestExportAndQuery(t *testing.T) {
	cachePath := writeTestCache(t)
	dbPath := filepath.Join(t.TempDir(), "bandstats.db")

	var out bytes.Buffer
	if err := runExport(&out, cachePath, dbPath, zap.NewNop()); err != nil {
		t.Fatalf("runExport() error: %v", err)
	}
	if !strings.Contains(out.String(), "Exported 2 artists, 2 albums and 3 tracks") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}

	out.Reset()
	if err := printTopArtists(&out, dbPath, 1); err != nil {
		t.Fatalf("printTopArtists() error: %v", err)
	}
	if !strings.Contains(out.String(), "52,000,000") || strings.Contains(out.String(), "Oregon") {
		t.Errorf("Unexpected top artists:\n%s", out.String())
	}

	out.Reset()
	if err := printTopGenres(&out, dbPath, 0); err != nil {
		t.Fatalf("printTopGenres() error: %v", err)
	}
	for _, want := range []string{"classic rock", "glam rock", "ecm-style jazz", "Found 3 genres"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected top genres to contain %q:\n%s", want, out.String())
		}
	}
}

func TestPrintTopArtistsDatabaseDoesntExist(t *testing.T) {
	var out bytes.Buffer
	err := printTopArtists(&out, filepath.Join(t.TempDir(), "bandstats.db"), 10)
	if err == nil {
		t.Fatalf("printTopArtists should have errored with no database")
	}
	if !strings.Contains(err.Error(), "doesn't exist") {
		t.Fatalf("printTopArtists should have said the db doesn't exist: %v", err)
	}
}

func TestSummaryCommand(t *testing.T) {
	path := writeTestCache(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)
	rootCmd.SetArgs([]string{"summary", "--cache", path, "--format", "yaml", "--log_level", "error"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if !strings.Contains(out.String(), "artists: 2") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}
}
