package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSpotify struct {
	tokenRequests  atomic.Int32
	searchRequests atomic.Int32
	// Number of 429s to return from /search before succeeding.
	throttle atomic.Int32
	// Number of 401s to return from /search before succeeding.
	unauthorized atomic.Int32
	// Status returned to bad credentials; zero means 400.
	rejectStatus int
}

func (f *fakeSpotify) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenRequests.Add(1)
		id, secret, ok := r.BasicAuth()
		if !ok || id != "id" || secret != "secret" {
			status := f.rejectStatus
			if status == 0 {
				status = http.StatusBadRequest
			}
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("GET /v1/search", func(w http.ResponseWriter, r *http.Request) {
		f.searchRequests.Add(1)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if f.unauthorized.Load() > 0 {
			f.unauthorized.Add(-1)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"status":401,"message":"The access token expired"}}`))
			return
		}
		if f.throttle.Load() > 0 {
			f.throttle.Add(-1)
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("q") {
		case "artist:Queen":
			w.Write([]byte(`{"artists":{"items":[{"id":"q1","name":"Queen","genres":["classic rock","rock"],"popularity":84,"followers":{"total":52000000}}]}}`))
		default:
			w.Write([]byte(`{"artists":{"items":[]}}`))
		}
	})
	mux.HandleFunc("GET /v1/artists/{id}/albums", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "q1", r.PathValue("id"))
		assert.Equal(t, "album", r.URL.Query().Get("include_groups"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"id":"a1","name":"A Night At The Opera","release_date":"1975-11-21","total_tracks":12},
			{"id":"a2","name":"Jazz","release_date":"1978","total_tracks":13}
		]}`))
	})
	mux.HandleFunc("GET /v1/albums/{id}/tracks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"t1","name":"Death On Two Legs"},{"id":"t2","name":"Lazing On A Sunday Afternoon"}]}`))
	})
	mux.HandleFunc("GET /v1/audio-features", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "t1,t2", r.URL.Query().Get("ids"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"audio_features":[{"id":"t1","danceability":0.5,"energy":0.75,"loudness":-7.25,"tempo":120.5},null]}`))
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeSpotify, clientSecret string) *Client {
	t.Helper()
	server := httptest.NewServer(f.handler(t))
	t.Cleanup(server.Close)
	return New(Config{
		ClientID:          "id",
		ClientSecret:      clientSecret,
		APIURL:            server.URL + "/v1",
		AccountsURL:       server.URL,
		RequestsPerSecond: 1000,
		Attempts:          3,
		RetryDelay:        time.Millisecond,
	})
}

func TestSearchArtist(t *testing.T) {
	f := &fakeSpotify{}
	client := newTestClient(t, f, "secret")

	artist, err := client.SearchArtist(context.Background(), "Queen")
	require.NoError(t, err)
	require.NotNil(t, artist)
	assert.Equal(t, &Artist{
		ID:         "q1",
		Name:       "Queen",
		Genres:     []string{"classic rock", "rock"},
		Popularity: 84,
		Followers:  52000000,
	}, artist)
}

func TestSearchArtistNoMatch(t *testing.T) {
	client := newTestClient(t, &fakeSpotify{}, "secret")

	artist, err := client.SearchArtist(context.Background(), "Wanavokali")
	require.NoError(t, err)
	assert.Nil(t, artist)
}

func TestTokenIsReused(t *testing.T) {
	f := &fakeSpotify{}
	client := newTestClient(t, f, "secret")

	for i := 0; i < 3; i++ {
		_, err := client.SearchArtist(context.Background(), "Queen")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), f.tokenRequests.Load())
}

func TestRetriesOnTooManyRequests(t *testing.T) {
	f := &fakeSpotify{}
	f.throttle.Store(2)
	client := newTestClient(t, f, "secret")

	artist, err := client.SearchArtist(context.Background(), "Queen")
	require.NoError(t, err)
	require.NotNil(t, artist)
	assert.Equal(t, int32(3), f.searchRequests.Load())
}

func TestGivesUpAfterAttempts(t *testing.T) {
	f := &fakeSpotify{}
	f.throttle.Store(10)
	client := newTestClient(t, f, "secret")

	_, err := client.SearchArtist(context.Background(), "Queen")
	require.Error(t, err)
	var serr *Error
	require.True(t, errors.As(err, &serr), "expected *Error, got %v", err)
	assert.Equal(t, http.StatusTooManyRequests, serr.StatusCode)
	assert.Equal(t, int32(3), f.searchRequests.Load())
}

func TestBadCredentialsAreNotRetried(t *testing.T) {
	f := &fakeSpotify{}
	client := newTestClient(t, f, "wrong")

	_, err := client.SearchArtist(context.Background(), "Queen")
	require.Error(t, err)
	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusBadRequest, serr.StatusCode)
	assert.Equal(t, int32(1), f.tokenRequests.Load())
	assert.Equal(t, int32(0), f.searchRequests.Load())
}

func TestUnauthorizedTokenEndpointIsNotRetried(t *testing.T) {
	f := &fakeSpotify{rejectStatus: http.StatusUnauthorized}
	client := newTestClient(t, f, "wrong")

	_, err := client.SearchArtist(context.Background(), "Queen")
	require.Error(t, err)
	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusUnauthorized, serr.StatusCode)
	assert.Equal(t, int32(1), f.tokenRequests.Load())
	assert.Equal(t, int32(0), f.searchRequests.Load())
}

func TestExpiredTokenIsRefetched(t *testing.T) {
	f := &fakeSpotify{}
	f.unauthorized.Store(1)
	client := newTestClient(t, f, "secret")

	artist, err := client.SearchArtist(context.Background(), "Queen")
	require.NoError(t, err)
	require.NotNil(t, artist)
	assert.Equal(t, int32(2), f.tokenRequests.Load())
	assert.Equal(t, int32(2), f.searchRequests.Load())
}

func TestArtistAlbumsAndTracks(t *testing.T) {
	client := newTestClient(t, &fakeSpotify{}, "secret")
	ctx := context.Background()

	albums, err := client.ArtistAlbums(ctx, "q1", 2)
	require.NoError(t, err)
	assert.Equal(t, []Album{
		{ID: "a1", Name: "A Night At The Opera", ReleaseDate: "1975-11-21", TotalTracks: 12},
		{ID: "a2", Name: "Jazz", ReleaseDate: "1978", TotalTracks: 13},
	}, albums)

	tracks, err := client.AlbumTracks(ctx, "a1", 1)
	require.NoError(t, err)
	assert.Equal(t, []Track{{ID: "t1", Name: "Death On Two Legs"}}, tracks)
}

func TestAudioFeatures(t *testing.T) {
	client := newTestClient(t, &fakeSpotify{}, "secret")

	features, err := client.AudioFeatures(context.Background(), []string{"t1", "t2"})
	require.NoError(t, err)
	require.Len(t, features, 2)
	require.NotNil(t, features[0])
	assert.Equal(t, AudioFeatures{ID: "t1", Danceability: 0.5, Energy: 0.75, Loudness: -7.25, Tempo: 120.5}, *features[0])
	assert.Nil(t, features[1])

	none, err := client.AudioFeatures(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
