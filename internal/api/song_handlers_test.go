package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sacredrosary/rosary-server/internal/catalog"
)

func TestListSongs(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/songs")
	require.Equal(t, http.StatusOK, resp.Code)

	songs := decode[[]SongResponse](t, resp)
	require.Len(t, songs, catalog.Default().Len())
	assert.Equal(t, catalog.DefaultSongID, songs[0].ID)
	assert.Positive(t, songs[0].Seconds)
}

func TestListSongs_Search(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/songs?q=magnificat")
	require.Equal(t, http.StatusOK, resp.Code)

	songs := decode[[]SongResponse](t, resp)
	require.NotEmpty(t, songs)
	assert.Equal(t, "magnificat", songs[0].ID)
}

func TestListSongs_SearchWithoutIndex(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.songs.Index = nil

	songs := decode[[]SongResponse](t, ts.api.Get("/api/songs?q=credo"))
	require.Len(t, songs, 1)
	assert.Equal(t, "credo", songs[0].ID)
}

func TestGetSong(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/songs/credo")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "/audio/credo-web.mp3", decode[SongResponse](t, resp).Path)

	resp = ts.api.Get("/api/songs/luminosa")
	require.Equal(t, http.StatusNotFound, resp.Code)
	body := decode[errorBody](t, resp)
	assert.Equal(t, "SONG_NOT_FOUND", body.Code)
	assert.Equal(t, "luminosa", body.Details["songId"])
}

func TestServeAudio(t *testing.T) {
	ts := setupTestServer(t, Options{})
	require.NoError(t, os.WriteFile(filepath.Join(ts.audioDir, "credo-web.mp3"), []byte("ID3-audio-bytes"), 0o600))

	resp := ts.api.Get("/audio/credo-web.mp3")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ID3-audio-bytes", resp.Body.String())
	assert.Equal(t, CacheOneDay, resp.Header().Get("Cache-Control"))

	resp = ts.api.Get("/audio/credo-web.mp3", "Range: bytes=0-2")
	require.Equal(t, http.StatusPartialContent, resp.Code)
	assert.Equal(t, "ID3", resp.Body.String())

	assert.Equal(t, http.StatusNotFound, ts.api.Get("/audio/missing.mp3").Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Get("/audio/.hidden").Code)
}
