package catalog

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sacredrosary/rosary-server/internal/domain"
)

func seeded() Option {
	return WithRand(rand.New(rand.NewPCG(1, 2)))
}

func TestDefault_BuiltinSongs(t *testing.T) {
	c := Default()

	assert.Equal(t, 13, c.Len())
	assert.Equal(t, DefaultSongID, c.First())

	s, ok := c.GetByID("salve-regina")
	require.True(t, ok)
	assert.Equal(t, "Salve Regina, Mater misericordiae", s.Latin)
	assert.Equal(t, "/audio/salve-regina-optimized.mp3", s.Path)

	credo, _ := c.GetByID("credo")
	assert.Equal(t, 20*time.Second, credo.ExpectedLoad)
}

func TestGetByID_NotFound(t *testing.T) {
	_, ok := Default().GetByID("te-deum")
	assert.False(t, ok)
}

func TestNext_InOrderIsACycle(t *testing.T) {
	c := Default()
	songs := c.Songs()

	for i, s := range songs {
		next := c.Next(s.ID, false)
		assert.Equal(t, songs[(i+1)%len(songs)].ID, next)
		assert.Equal(t, s.ID, c.Previous(next), "previous undoes next for %s", s.ID)
	}

	assert.Equal(t, songs[0].ID, c.Next(songs[len(songs)-1].ID, false))
	assert.Equal(t, songs[len(songs)-1].ID, c.Previous(songs[0].ID))
}

func TestNext_UnknownID(t *testing.T) {
	c := Default()
	assert.Equal(t, c.First(), c.Next("missing", false))
	assert.Equal(t, "veni-creator-spiritus", c.Previous("missing"))
}

func TestNext_ShuffleNeverRepeats(t *testing.T) {
	c := Default(seeded())

	for _, s := range c.Songs() {
		for range 50 {
			got := c.Next(s.ID, true)
			assert.NotEqual(t, s.ID, got)
			_, ok := c.GetByID(got)
			assert.True(t, ok)
		}
	}
}

func TestNext_ShuffleCoversCatalog(t *testing.T) {
	c := Default(seeded())
	seen := map[string]bool{}
	for range 500 {
		seen[c.Next("credo", true)] = true
	}
	assert.Len(t, seen, c.Len()-1)
}

func TestNext_SingleSong(t *testing.T) {
	c, err := New([]domain.Song{{ID: "pater-noster"}})
	require.NoError(t, err)

	assert.Equal(t, "pater-noster", c.Next("pater-noster", true))
	assert.Equal(t, "pater-noster", c.Next("pater-noster", false))
	assert.Equal(t, "pater-noster", c.Previous("pater-noster"))
}

func TestNext_Empty(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)
	assert.Empty(t, c.Next("x", true))
	assert.Empty(t, c.Previous("x"))
	assert.Empty(t, c.First())
}

func TestNew_RejectsBadIDs(t *testing.T) {
	_, err := New([]domain.Song{{ID: "credo"}, {ID: "credo"}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = New([]domain.Song{{ID: ""}})
	assert.ErrorContains(t, err, "empty id")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songs.toml")
	data := `
[[song]]
id = "te-deum"
title = "Te Deum"
latin = "Te Deum laudamus"
duration = "6:10"
path = "/audio/te-deum.mp3"
expected_load = "45s"

[[song]]
id = "ave-maria"
title = "Ave Maria"
duration = "1:40"
path = "/audio/ave-maria.mp3"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	s, ok := c.GetByID("te-deum")
	require.True(t, ok)
	assert.Equal(t, 45*time.Second, s.ExpectedLoad)
	assert.Equal(t, "ave-maria", c.Next("te-deum", false))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.toml")
	require.NoError(t, os.WriteFile(path, []byte("# nothing\n"), 0o600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "no songs")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 13, c.Len())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{61, "1:01"},
		{599, "9:59"},
		{59.9, "0:59"},
		{3725, "62:05"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds), "seconds=%v", tt.seconds)
	}
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("8:25")
	require.NoError(t, err)
	assert.Equal(t, 8*time.Minute+25*time.Second, d)

	for _, bad := range []string{"", "825", "1:5", "1:75", "x:10"} {
		_, err := ParseDuration(bad)
		assert.Error(t, err, bad)
	}
}

func TestIndex_Search(t *testing.T) {
	idx, err := NewIndex(Default())
	require.NoError(t, err)
	defer idx.Close()

	ids, err := idx.Search("regina", 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"regina-caeli", "salve-regina"}, ids)

	ids, err = idx.Search("Credo", 5)
	require.NoError(t, err)
	require.NotEmpty(t, ids)
	assert.Equal(t, "credo", ids[0])

	ids, err = idx.Search("", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"adoro-te-devote", "anima-christi", "benedictus"}, ids)
}

func TestProbe_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credo-web.mp3"), []byte("not really audio"), 0o600))

	results, err := Probe(context.Background(), Default(), dir)
	require.NoError(t, err)
	require.Len(t, results, 13)

	for _, r := range results {
		if r.SongID == "credo" {
			assert.False(t, r.Missing)
			assert.Equal(t, filepath.Join(dir, "credo-web.mp3"), r.File)
			continue
		}
		assert.True(t, r.Missing, r.SongID)
		assert.False(t, r.OK())
	}
}

func TestProbe_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Probe(ctx, Default(), t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProbeResult_Mismatch(t *testing.T) {
	r := ProbeResult{Nominal: 2*time.Minute + 33*time.Second, Measured: 2*time.Minute + 34*time.Second}
	assert.False(t, r.Mismatch())
	assert.True(t, r.OK())

	r.Measured = 3 * time.Minute
	assert.True(t, r.Mismatch())
	assert.False(t, r.OK())
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/srv/audio", "credo-web.mp3"), ResolvePath("/srv/audio", "/audio/credo-web.mp3"))
	assert.Equal(t, filepath.Join("/srv/audio", "passwd"), ResolvePath("/srv/audio", "/audio/../../etc/passwd"))
}
