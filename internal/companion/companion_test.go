package companion

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sacredrosary/rosary-server/internal/catalog"
	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/localstore"
	"github.com/sacredrosary/rosary-server/internal/playback"
	"github.com/sacredrosary/rosary-server/internal/preferences"
)

// instantResource becomes ready as soon as it is loaded.
type instantResource struct{}

func (instantResource) Play() error       { return nil }
func (instantResource) Pause()            {}
func (instantResource) Seek(float64)      {}
func (instantResource) SetVolume(float64) {}
func (instantResource) Close() error      { return nil }

// sinkRecorder keeps the sink of every load so tests can end tracks.
type sinkRecorder struct {
	mu    sync.Mutex
	sinks []playback.Sink
}

func (r *sinkRecorder) Load(_ context.Context, _ domain.Song, sink playback.Sink) (playback.Resource, error) {
	r.mu.Lock()
	r.sinks = append(r.sinks, sink)
	r.mu.Unlock()
	go sink.Ready(120)
	return instantResource{}, nil
}

func (r *sinkRecorder) last() playback.Sink {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sinks[len(r.sinks)-1]
}

func openCompanion(t *testing.T, kv localstore.Store, autoAdvance bool) (*Companion, *sinkRecorder) {
	t.Helper()
	loader := &sinkRecorder{}
	c, err := Open(context.Background(), Options{
		Store:       kv,
		Loader:      loader,
		Interaction: playback.Always{},
		AutoAdvance: autoAdvance,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, loader
}

func waitFor(t *testing.T, c *Companion, cond func(playback.State) bool) {
	t.Helper()
	require.Eventually(t, func() bool { return cond(c.Player.State()) }, 2*time.Second, 5*time.Millisecond)
}

func TestOpen_RequiresStore(t *testing.T) {
	_, err := Open(context.Background(), Options{Loader: &sinkRecorder{}})
	assert.Error(t, err)
}

func TestAutoAdvance(t *testing.T) {
	c, loader := openCompanion(t, localstore.NewMemory(), true)
	assert.True(t, c.AutoAdvance())

	c.Player.Load("credo", true)
	waitFor(t, c, func(s playback.State) bool { return s.Status == playback.StatusPlaying })

	loader.last().Ended()
	want := c.Catalog.Next("credo", false)
	waitFor(t, c, func(s playback.State) bool {
		return s.CurrentSong == want && s.Status == playback.StatusPlaying
	})
}

func TestAutoAdvance_Off(t *testing.T) {
	c, loader := openCompanion(t, localstore.NewMemory(), false)

	c.Player.Load("credo", true)
	waitFor(t, c, func(s playback.State) bool { return s.Status == playback.StatusPlaying })

	loader.last().Ended()
	waitFor(t, c, func(s playback.State) bool { return s.Status == playback.StatusEnded })
	assert.Equal(t, "credo", c.Player.State().CurrentSong)

	c.SetAutoAdvance(true)
	assert.True(t, c.AutoAdvance())
	c.SetAutoAdvance(false)
	assert.False(t, c.AutoAdvance())
}

func TestStateSharedThroughStore(t *testing.T) {
	ctx := context.Background()
	kv, err := localstore.OpenBadger(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	c, _ := openCompanion(t, kv, false)
	assert.True(t, c.Records.Guest())

	for range 3 {
		_, err := c.Progress.Advance(ctx)
		require.NoError(t, err)
	}
	_, err = c.Preferences.Larger(ctx)
	require.NoError(t, err)
	_, err = c.Records.AddIntention(ctx, "Pela paz no mundo")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	again, _ := openCompanion(t, kv, false)
	pos := again.Progress.Position()
	assert.Equal(t, domain.SectionGaudiosa, pos.Section)
	assert.Equal(t, 2, pos.Mystery)
	assert.Equal(t, preferences.FontXL, again.Preferences.FontSize())
	list, err := again.Records.Intentions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestClose_Idempotent(t *testing.T) {
	c, _ := openCompanion(t, localstore.NewMemory(), true)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, playback.StatusIdle, c.Player.State().Status)
}

func TestOpen_DefaultCatalog(t *testing.T) {
	c, _ := openCompanion(t, localstore.NewMemory(), false)
	assert.Equal(t, catalog.Default().Len(), c.Catalog.Len())
}
